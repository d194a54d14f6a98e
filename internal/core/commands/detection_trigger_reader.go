// Copyright 2025 Art Beyond Sight
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that turns a raw Pub/Sub detection event into a typed Detection.
//
// Remote capture devices publish each candidate sighting as a JSON payload.
// This command is the first link in the ingest chain: it deserializes the
// payload, stamps a receive time if the device omitted one, and passes the
// typed detection to the session feeder.
package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mansapatel111/artbeyondsight/internal/core/cor"
	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// DetectionTriggerReader parses a detection event JSON payload from the
// context input and emits a *model.Detection.
type DetectionTriggerReader struct {
	cor.BaseCommand
}

func NewDetectionTriggerReader(name string) *DetectionTriggerReader {
	return &DetectionTriggerReader{BaseCommand: *cor.NewBaseCommand(name)}
}

func (t *DetectionTriggerReader) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(t.GetInputParam()) != nil
}

func (t *DetectionTriggerReader) Execute(context cor.Context) {
	payload := context.Get(t.GetInputParam()).(string)

	detection := &model.Detection{}
	if err := json.Unmarshal([]byte(payload), detection); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to parse detection event: %w", err))
		return
	}
	if detection.Timestamp.IsZero() {
		detection.Timestamp = time.Now()
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), detection)
}
