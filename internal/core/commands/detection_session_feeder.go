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

package commands

import (
	"github.com/mansapatel111/artbeyondsight/internal/core/cor"
	"github.com/mansapatel111/artbeyondsight/internal/core/model"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
)

// DetectionSessionFeeder hands a parsed detection to the scan session. The
// session applies its own gating (normalization, hold timer, lock), so this
// command never fails: a dropped detection is a normal outcome, not an
// error, and the originating message should still be acknowledged.
type DetectionSessionFeeder struct {
	cor.BaseCommand
	session *scan.Session
}

func NewDetectionSessionFeeder(name string, session *scan.Session) *DetectionSessionFeeder {
	return &DetectionSessionFeeder{
		BaseCommand: *cor.NewBaseCommand(name),
		session:     session,
	}
}

func (t *DetectionSessionFeeder) IsExecutable(context cor.Context) bool {
	if context == nil {
		return false
	}
	_, ok := context.Get(t.GetInputParam()).(*model.Detection)
	return ok
}

func (t *DetectionSessionFeeder) Execute(context cor.Context) {
	detection := context.Get(t.GetInputParam()).(*model.Detection)
	t.session.HandleDetection(detection)
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), detection)
}
