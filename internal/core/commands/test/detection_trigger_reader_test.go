// Copyright 2025 Art Beyond Sight
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package test

import (
	"context"
	"testing"
	"time"

	"github.com/zeebo/assert"

	"github.com/mansapatel111/artbeyondsight/internal/core/commands"
	"github.com/mansapatel111/artbeyondsight/internal/core/cor"
	"github.com/mansapatel111/artbeyondsight/internal/core/model"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
	"github.com/mansapatel111/artbeyondsight/internal/core/workflow"
	testutil "github.com/mansapatel111/artbeyondsight/internal/testutil"
)

func TestDetectionTriggerReaderParsesDevicePayload(t *testing.T) {
	cmd := commands.NewDetectionTriggerReader("trigger-reader")
	chainCtx := newChainContext()
	chainCtx.Add(cor.CtxIn, testutil.GetTestDetectionMessageText())

	assert.True(t, cmd.IsExecutable(chainCtx))
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	detection, ok := chainCtx.Get(cor.CtxOut).(*model.Detection)
	assert.True(t, ok)
	assert.Equal(t, model.CategoryMuseum, detection.Category)
	assert.Equal(t, "The Starry Night", detection.Title)
	assert.True(t, detection.Confidence > 0.9)
	assert.False(t, detection.Timestamp.IsZero())
}

func TestDetectionTriggerReaderStampsMissingTimestamp(t *testing.T) {
	cmd := commands.NewDetectionTriggerReader("trigger-reader")
	chainCtx := newChainContext()
	chainCtx.Add(cor.CtxIn, `{"category": "monuments", "confidence": 0.8, "description": "A bronze statue of a mounted general"}`)

	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	detection := chainCtx.Get(cor.CtxOut).(*model.Detection)
	assert.True(t, time.Since(detection.Timestamp) < time.Minute)
}

func TestDetectionTriggerReaderRejectsMalformedPayload(t *testing.T) {
	cmd := commands.NewDetectionTriggerReader("trigger-reader")
	chainCtx := newChainContext()
	chainCtx.Add(cor.CtxIn, "not a json payload")

	cmd.Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
}

type sinkAnalyzer struct{}

func (sinkAnalyzer) Analyze(ctx context.Context, d *model.Detection) *model.AnalysisResult {
	return nil
}

func (sinkAnalyzer) InFlight() bool { return false }

// The full ingest pipeline: a device payload lands in the session's recent
// feed, while one the normalizer rejects does not.
func TestDetectionIngestWorkflow(t *testing.T) {
	session := scan.NewSession(context.Background(), scan.NewNormalizer(time.Second, 0), sinkAnalyzer{},
		scan.WithHoldDelay(time.Hour))
	defer session.Stop()
	pipeline := workflow.NewDetectionIngestWorkflow(session)

	chainCtx := newChainContext()
	chainCtx.Add(cor.CtxIn, testutil.GetTestDetectionMessageText())
	pipeline.Execute(chainCtx)
	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, 1, len(session.Recent()))

	lowCtx := newChainContext()
	lowCtx.Add(cor.CtxIn, testutil.GetTestLowConfidenceMessageText())
	pipeline.Execute(lowCtx)
	assert.False(t, lowCtx.HasErrors())
	assert.Equal(t, 1, len(session.Recent()))
}
