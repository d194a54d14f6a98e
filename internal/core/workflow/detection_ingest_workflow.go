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

// Package workflow defines the high-level business logic orchestrations.
// This file implements the detection ingest workflow, the pipeline attached
// to the detection Pub/Sub subscription. It parses each raw event and feeds
// the typed detection into the scan session.
package workflow

import (
	"github.com/mansapatel111/artbeyondsight/internal/core/commands"
	"github.com/mansapatel111/artbeyondsight/internal/core/cor"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
)

// DetectionIngestWorkflow is the Chain of Responsibility executed for every
// detection event received from a capture device.
type DetectionIngestWorkflow struct {
	cor.BaseCommand
	session *scan.Session
	chain   cor.Chain
}

func (w *DetectionIngestWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

func (w *DetectionIngestWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Parse the raw JSON event into a typed detection.
	out.AddCommand(commands.NewDetectionTriggerReader("detection-trigger-reader"))

	// Step 2: Hand the detection to the scan session, which applies
	// normalization, the hold timer, and the analysis lock.
	out.AddCommand(commands.NewDetectionSessionFeeder("detection-session-feeder", w.session))

	w.chain = out
}

// NewDetectionIngestWorkflow builds the ingest pipeline around a session.
func NewDetectionIngestWorkflow(session *scan.Session) *DetectionIngestWorkflow {
	pipeline := &DetectionIngestWorkflow{
		BaseCommand: *cor.NewBaseCommand("detection-ingest-pipeline"),
		session:     session,
	}
	pipeline.initializeChain()
	return pipeline
}
