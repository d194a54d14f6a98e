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

// Package scan contains the detection-side pipeline. This file implements
// the hold-and-lock session: the state machine that stops the pipeline from
// analyzing every momentary detection the camera produces.
//
// The session moves through three states:
//
//   - Idle: an accepted detection becomes the pending lock and starts the
//     hold timer, with a "hold still" status naming the candidate subject.
//   - Holding: every further detection is dropped silently; the original
//     timer is neither reset nor extended. An explicit stop cancels the
//     timer and returns to Idle.
//   - Analyzing: the timer elapsed, the subject is locked, and the analyzer
//     runs. Detections of any kind are ignored until it completes.
//
// Detections arriving while a hold, a lock or an analysis is active are
// dropped, never queued. The vision stream produces events far faster than
// analysis completes, so the session sheds load instead of building a
// backlog. Completion clears the lock unconditionally; the independent
// out-of-frame guidance signal can also clear it early so a fresh subject
// can start a new hold cycle.
package scan

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// DefaultHoldDelay is the settling delay between first seeing a subject and
// committing to its analysis.
const DefaultHoldDelay = 5 * time.Second

// maxRecentDetections bounds the display feed of recent sightings.
const maxRecentDetections = 10

// Analyzer is the downstream consumer of a held detection. Analyze never
// returns an error: failures come back as placeholder results.
type Analyzer interface {
	Analyze(ctx context.Context, d *model.Detection) *model.AnalysisResult
	InFlight() bool
}

// Stage identifies what the session is currently asking of the user.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageHolding    Stage = "holding"
	StageProcessing Stage = "processing"
)

// Status is the user-facing state surfaced while holding and analyzing.
type Status struct {
	Stage   Stage  `json:"stage"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
}

// Session is the hold-and-lock controller for one scanning session. All
// mutable lock state lives on the instance, constructed once per session
// and torn down on stop, so nothing leaks across sessions.
type Session struct {
	mu            sync.Mutex
	normalizer    *Normalizer
	analyzer      Analyzer
	holdDelay     time.Duration
	onStatus      func(Status)
	onResult      func(*model.AnalysisResult)
	ctx           context.Context
	pending       *model.Detection // The held detection; at most one.
	holdTimer     *time.Timer      // Cancellable hold handle; nil unless Holding.
	lockedSubject string           // Non-empty while a subject is being analyzed.
	recent        []*model.Detection
	latest        *model.AnalysisResult
	stopped       bool
}

// SessionOption customizes a Session at construction.
type SessionOption func(*Session)

// WithHoldDelay overrides the settling delay; mainly for tests.
func WithHoldDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.holdDelay = d
		}
	}
}

// WithStatusFunc registers a callback for user-facing status changes.
func WithStatusFunc(fn func(Status)) SessionOption {
	return func(s *Session) { s.onStatus = fn }
}

// WithResultFunc registers a callback invoked with each completed result.
func WithResultFunc(fn func(*model.AnalysisResult)) SessionOption {
	return func(s *Session) { s.onResult = fn }
}

// NewSession creates a scanning session. The context bounds every analysis
// the session spawns; cancelling it is equivalent to Stop for work not yet
// started.
func NewSession(ctx context.Context, normalizer *Normalizer, analyzer Analyzer, opts ...SessionOption) *Session {
	s := &Session{
		normalizer: normalizer,
		analyzer:   analyzer,
		holdDelay:  DefaultHoldDelay,
		ctx:        ctx,
		recent:     make([]*model.Detection, 0, maxRecentDetections),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleDetection feeds one raw detection into the session. Invalid,
// low-confidence, off-vocabulary and duplicate detections are dropped by
// the normalizer; anything arriving during a hold, a lock or an in-flight
// analysis is dropped by the session itself.
func (s *Session) HandleDetection(d *model.Detection) {
	if d == nil {
		return
	}
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	if reason := s.normalizer.Accept(d); reason != RejectNone {
		s.mu.Unlock()
		slog.Debug("detection rejected", "reason", string(reason), "category", string(d.Category))
		return
	}

	s.remember(d)

	if s.pending != nil || s.lockedSubject != "" || s.analyzer.InFlight() {
		s.mu.Unlock()
		slog.Debug("detection dropped: hold or analysis already active")
		return
	}

	s.pending = d
	subject := SubjectName(d)
	s.holdTimer = time.AfterFunc(s.holdDelay, s.promote)
	s.mu.Unlock()

	s.notify(Status{
		Stage:   StageHolding,
		Subject: subject,
		Message: "Hold still — focusing on " + subject,
	})
}

// HandleGuidance consumes the stream's in-frame signal. Losing the subject
// from frame releases the lock early, letting a different subject start a
// fresh hold cycle without waiting for the current analysis to land.
func (s *Session) HandleGuidance(g model.GuidanceEvent) {
	if g.InFrame {
		return
	}
	s.mu.Lock()
	s.lockedSubject = ""
	s.mu.Unlock()
}

// promote fires when the hold timer elapses: the pending detection is
// committed, the subject locked, and the analysis started.
func (s *Session) promote() {
	s.mu.Lock()
	if s.stopped || s.pending == nil {
		s.mu.Unlock()
		return
	}
	d := s.pending
	s.pending = nil
	s.holdTimer = nil
	d.Analyzing = true
	subject := SubjectName(d)
	s.lockedSubject = subject
	ctx := s.ctx
	s.mu.Unlock()

	s.notify(Status{Stage: StageProcessing, Subject: subject, Message: "Analyzing " + subject})

	go func() {
		result := s.analyzer.Analyze(ctx, d)

		s.mu.Lock()
		d.Analyzing = false
		// Clear unconditionally on completion; the out-of-frame signal is
		// the only other thing that releases the lock.
		s.lockedSubject = ""
		if result != nil {
			s.latest = result
		}
		onResult := s.onResult
		s.mu.Unlock()

		s.notify(Status{Stage: StageIdle})
		if onResult != nil && result != nil {
			onResult(result)
		}
	}()
}

// Stop cancels any pending hold and refuses further detections. An
// analysis already in flight is allowed to complete or time out on its own;
// its result still lands in the latest slot, which is a benign race.
func (s *Session) Stop() {
	s.mu.Lock()
	s.stopped = true
	if s.holdTimer != nil {
		s.holdTimer.Stop()
		s.holdTimer = nil
	}
	s.pending = nil
	s.mu.Unlock()

	s.notify(Status{Stage: StageIdle})
}

// Stopped reports whether the session has been torn down.
func (s *Session) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// LockedSubject returns the subject currently being analyzed, or "".
func (s *Session) LockedSubject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockedSubject
}

// Holding reports whether a hold timer is currently running.
func (s *Session) Holding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Latest returns the most recently assembled result, or nil.
func (s *Session) Latest() *model.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Recent returns a copy of the retained recent detections, newest last.
func (s *Session) Recent() []*model.Detection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Detection, len(s.recent))
	copy(out, s.recent)
	return out
}

// remember appends to the display feed, discarding the oldest beyond the
// retention cap. Caller holds s.mu.
func (s *Session) remember(d *model.Detection) {
	s.recent = append(s.recent, d)
	if len(s.recent) > maxRecentDetections {
		s.recent = s.recent[len(s.recent)-maxRecentDetections:]
	}
}

// notify delivers a status update outside the session lock.
func (s *Session) notify(st Status) {
	if s.onStatus != nil {
		s.onStatus(st)
	}
}
