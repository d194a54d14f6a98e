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

package test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
)

// stubAnalyzer counts calls and can block until released, simulating a slow
// live analysis.
type stubAnalyzer struct {
	mu       sync.Mutex
	calls    int
	subjects []string
	block    chan struct{}
	inFlight bool
	result   *model.AnalysisResult
}

func (a *stubAnalyzer) Analyze(_ context.Context, d *model.Detection) *model.AnalysisResult {
	a.mu.Lock()
	a.calls++
	a.subjects = append(a.subjects, d.Title)
	block := a.block
	a.mu.Unlock()
	if block != nil {
		<-block
	}
	return a.result
}

func (a *stubAnalyzer) InFlight() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight
}

func (a *stubAnalyzer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func paintingDetection(title string) *model.Detection {
	return model.NewDetection(model.CategoryMuseum, 0.9, "A painting of "+title, title)
}

func newTestSession(analyzer scan.Analyzer, opts ...scan.SessionOption) *scan.Session {
	base := []scan.SessionOption{scan.WithHoldDelay(20 * time.Millisecond)}
	return scan.NewSession(context.Background(), scan.NewNormalizer(time.Millisecond, 0), analyzer, append(base, opts...)...)
}

func TestNilDetectionIsIgnored(t *testing.T) {
	analyzer := &stubAnalyzer{}
	session := newTestSession(analyzer)
	defer session.Stop()

	session.HandleDetection(nil)

	assert.False(t, session.Holding())
	assert.Equal(t, 0, analyzer.callCount())
}

func TestDetectionStartsHoldThenAnalyzes(t *testing.T) {
	analyzer := &stubAnalyzer{result: &model.AnalysisResult{Title: "The Starry Night"}}
	var statuses []scan.Status
	var mu sync.Mutex
	var results []*model.AnalysisResult

	session := newTestSession(analyzer,
		scan.WithStatusFunc(func(st scan.Status) {
			mu.Lock()
			statuses = append(statuses, st)
			mu.Unlock()
		}),
		scan.WithResultFunc(func(r *model.AnalysisResult) {
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}))

	session.HandleDetection(paintingDetection("The Starry Night"))
	assert.True(t, session.Holding())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, analyzer.callCount())
	assert.Equal(t, "The Starry Night", session.Latest().Title)
	assert.Equal(t, "", session.LockedSubject())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, scan.StageHolding, statuses[0].Stage)
	assert.Equal(t, "The Starry Night", statuses[0].Subject)
}

func TestSecondDetectionDuringHoldDoesNotResetTimer(t *testing.T) {
	analyzer := &stubAnalyzer{result: &model.AnalysisResult{Title: "first"}}
	session := newTestSession(analyzer, scan.WithHoldDelay(50*time.Millisecond))

	session.HandleDetection(paintingDetection("First Canvas"))
	time.Sleep(25 * time.Millisecond)
	// A different subject arriving mid-hold is dropped; the original timer
	// keeps running.
	session.HandleDetection(paintingDetection("Second Canvas"))

	assert.Eventually(t, func() bool {
		return analyzer.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	analyzer.mu.Lock()
	defer analyzer.mu.Unlock()
	assert.Equal(t, []string{"First Canvas"}, analyzer.subjects)
}

func TestDetectionDuringAnalysisIsDropped(t *testing.T) {
	block := make(chan struct{})
	analyzer := &stubAnalyzer{block: block, result: &model.AnalysisResult{Title: "first"}}
	session := newTestSession(analyzer)

	session.HandleDetection(paintingDetection("First Canvas"))
	assert.Eventually(t, func() bool {
		return session.LockedSubject() == "First Canvas"
	}, time.Second, 5*time.Millisecond)

	session.HandleDetection(paintingDetection("Second Canvas"))
	close(block)

	assert.Eventually(t, func() bool {
		return session.LockedSubject() == ""
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, analyzer.callCount())
}

func TestOutOfFrameReleasesLock(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	analyzer := &stubAnalyzer{block: block, result: &model.AnalysisResult{Title: "first"}}
	session := newTestSession(analyzer)

	session.HandleDetection(paintingDetection("First Canvas"))
	assert.Eventually(t, func() bool {
		return session.LockedSubject() == "First Canvas"
	}, time.Second, 5*time.Millisecond)

	session.HandleGuidance(model.GuidanceEvent{InFrame: false, Seen: time.Now()})
	assert.Equal(t, "", session.LockedSubject())

	// An in-frame signal never changes lock state.
	session.HandleGuidance(model.GuidanceEvent{InFrame: true, Seen: time.Now()})
	assert.Equal(t, "", session.LockedSubject())
}

func TestStopCancelsPendingHold(t *testing.T) {
	analyzer := &stubAnalyzer{result: &model.AnalysisResult{Title: "never"}}
	session := newTestSession(analyzer, scan.WithHoldDelay(30*time.Millisecond))

	session.HandleDetection(paintingDetection("First Canvas"))
	session.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, analyzer.callCount())
	assert.True(t, session.Stopped())
	assert.False(t, session.Holding())

	// A stopped session refuses further detections.
	session.HandleDetection(paintingDetection("Second Canvas"))
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, analyzer.callCount())
}

func TestAnalyzerInFlightBlocksNewHold(t *testing.T) {
	analyzer := &stubAnalyzer{inFlight: true}
	session := newTestSession(analyzer)

	session.HandleDetection(paintingDetection("First Canvas"))
	assert.False(t, session.Holding())
}

func TestRecentFeedIsBounded(t *testing.T) {
	analyzer := &stubAnalyzer{inFlight: true} // Keep detections from holding.
	session := newTestSession(analyzer)

	for i := 0; i < 15; i++ {
		d := model.NewDetection(model.CategoryMuseum, 0.9, "A painting of subject number", "")
		d.Title = "subject"
		// Vary the description so the normalizer does not dedup.
		d.Description = d.Description + " " + string(rune('a'+i))
		session.HandleDetection(d)
	}
	assert.LessOrEqual(t, len(session.Recent()), 10)
}
