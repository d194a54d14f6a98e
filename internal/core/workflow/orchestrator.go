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
// This file implements the analysis orchestrator, the component that takes a
// committed detection and turns it into a complete, narrated result.
//
// Logic Flow:
//  1. Refuse to start if an analysis is already in flight. Overlapping
//     analyses would talk over each other, so a second request is a no-op.
//  2. Announce the subject so the user knows the scanner is working.
//  3. Check the artifact cache. A hit skips every generative call.
//  4. Query the model by subject name. The name path is cheapest and usually
//     sufficient when the detector produced a title.
//  5. If the name path could not identify the subject, fall back to staging
//     the camera frame and asking the vision model.
//  6. On success, synthesize narration audio and an ambient track, both
//     best-effort, and persist the analysis for future cache hits.
//  7. If everything failed or the deadline passed, return a category
//     placeholder so the user still gets an answer.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"text/template"
	"time"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
)

// DefaultAnalysisTimeout bounds a single end-to-end analysis, covering every
// generative call, narration synthesis, and music generation.
const DefaultAnalysisTimeout = 120 * time.Second

// AnalysisProvider is the generative backend for the two analysis paths.
type AnalysisProvider interface {
	AnalyzeByName(ctx context.Context, subjectName string, category model.Category) (*model.ArtifactAnalysis, error)
	AnalyzeImage(ctx context.Context, detection *model.Detection) (*model.ArtifactAnalysis, string, error)
}

// CacheLookup resolves a subject name against previously stored analyses.
type CacheLookup interface {
	Resolve(ctx context.Context, subjectName string) *model.CachedAnalysis
}

// Narrator produces spoken audio. Both methods are best-effort from the
// orchestrator's point of view.
type Narrator interface {
	Announce(ctx context.Context, text string) error
	Synthesize(ctx context.Context, text string) (string, error)
}

// MusicComposer produces an ambient track URL for a prompt.
type MusicComposer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ArtifactSaver persists completed live analyses back to the store.
type ArtifactSaver interface {
	Save(ctx context.Context, record *model.CachedAnalysis) error
}

// AnalysisOrchestrator implements scan.Analyzer. It owns the single-flight
// guard: at most one analysis runs at a time, and a request arriving while
// one is running does nothing.
type AnalysisOrchestrator struct {
	provider      AnalysisProvider
	cache         CacheLookup
	narrator      Narrator
	composer      MusicComposer
	musicTemplate *template.Template
	saver         ArtifactSaver
	assembler     *ResultAssembler
	timeout       time.Duration
	inFlight      atomic.Bool
}

// OrchestratorOption configures optional collaborators.
type OrchestratorOption func(*AnalysisOrchestrator)

// WithAnalysisTimeout overrides the end-to-end analysis deadline.
func WithAnalysisTimeout(d time.Duration) OrchestratorOption {
	return func(o *AnalysisOrchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithComposer enables ambient music generation for live results.
func WithComposer(c MusicComposer) OrchestratorOption {
	return func(o *AnalysisOrchestrator) { o.composer = c }
}

// WithMusicTemplate sets the template that renders the composer prompt.
// Without one the orchestrator builds a plain prompt from the title and
// emotion tags.
func WithMusicTemplate(t *template.Template) OrchestratorOption {
	return func(o *AnalysisOrchestrator) { o.musicTemplate = t }
}

// WithSaver enables persisting live analyses back to the artifact store.
func WithSaver(s ArtifactSaver) OrchestratorOption {
	return func(o *AnalysisOrchestrator) { o.saver = s }
}

func NewAnalysisOrchestrator(
	provider AnalysisProvider,
	cache CacheLookup,
	narrator Narrator,
	assembler *ResultAssembler,
	opts ...OrchestratorOption) *AnalysisOrchestrator {

	out := &AnalysisOrchestrator{
		provider:  provider,
		cache:     cache,
		narrator:  narrator,
		assembler: assembler,
		timeout:   DefaultAnalysisTimeout,
	}
	for _, opt := range opts {
		opt(out)
	}
	return out
}

// InFlight reports whether an analysis is currently running.
func (o *AnalysisOrchestrator) InFlight() bool {
	return o.inFlight.Load()
}

// Analyze runs the full detection-to-result flow. It returns nil when an
// analysis is already in flight; every other outcome produces a result.
func (o *AnalysisOrchestrator) Analyze(ctx context.Context, detection *model.Detection) *model.AnalysisResult {
	if !o.inFlight.CompareAndSwap(false, true) {
		slog.InfoContext(ctx, "analysis already in flight, ignoring request",
			slog.String("description", detection.Description))
		return nil
	}
	defer o.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	subject := scan.SubjectName(detection)

	// The announcement is part of the experience, not of the pipeline.
	// A failed announcement is logged and forgotten.
	if err := o.narrator.Announce(ctx, fmt.Sprintf("Analyzing %s", subject)); err != nil {
		slog.WarnContext(ctx, "failed to announce analysis",
			slog.String("subject", subject), slog.Any("error", err))
	}

	if cached := o.cache.Resolve(ctx, subject); cached != nil {
		slog.InfoContext(ctx, "serving analysis from cache",
			slog.String("subject", subject), slog.String("analysis_id", cached.Id))
		return o.assembler.FromCache(ctx, cached)
	}

	analysis, imageURL, err := o.analyzeLive(ctx, detection, subject)
	if err != nil {
		reason := model.PlaceholderFailure
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = model.PlaceholderTimeout
		}
		slog.WarnContext(ctx, "analysis failed, returning placeholder",
			slog.String("subject", subject),
			slog.String("reason", string(reason)),
			slog.Any("error", err))
		return o.assembler.Placeholder(detection.Category, reason)
	}

	audioURL := o.narrate(ctx, analysis)
	musicURL := o.compose(ctx, analysis, detection.Category)

	result := o.assembler.FromLive(ctx, analysis, detection.Category, audioURL, musicURL, imageURL)
	o.persist(ctx, result)
	return result
}

// analyzeLive runs the name query first and falls back to the vision path
// when the name query fails or comes back unidentified.
func (o *AnalysisOrchestrator) analyzeLive(ctx context.Context, detection *model.Detection, subject string) (*model.ArtifactAnalysis, string, error) {
	analysis, nameErr := o.provider.AnalyzeByName(ctx, subject, detection.Category)
	if nameErr == nil && analysis.Recognized() {
		return analysis, "", nil
	}
	if nameErr != nil {
		slog.InfoContext(ctx, "name query failed, falling back to vision analysis",
			slog.String("subject", subject), slog.Any("error", nameErr))
	} else {
		slog.InfoContext(ctx, "name query did not identify the subject, falling back to vision analysis",
			slog.String("subject", subject))
	}

	analysis, imageURL, visionErr := o.provider.AnalyzeImage(ctx, detection)
	if visionErr != nil {
		return nil, "", errors.Join(nameErr, visionErr)
	}
	if !analysis.Recognized() {
		// The vision model saw something but could not name it. Its
		// description is still worth presenting under a generic title.
		analysis.Title = model.PlaceholderTitle(detection.Category)
	}
	return analysis, imageURL, nil
}

// narrate synthesizes the spoken description. Returns an empty URL when
// synthesis fails; an empty URL downstream means "no playback available".
func (o *AnalysisOrchestrator) narrate(ctx context.Context, analysis *model.ArtifactAnalysis) string {
	text := analysis.Description
	if analysis.HistoricalContext != "" {
		text = text + " " + analysis.HistoricalContext
	}
	audioURL, err := o.narrator.Synthesize(ctx, text)
	if err != nil {
		slog.WarnContext(ctx, "failed to synthesize narration",
			slog.String("title", analysis.Title), slog.Any("error", err))
		return ""
	}
	return audioURL
}

// compose requests an ambient track built from the title and emotion tags.
// Returns an empty URL when the composer is absent or fails; the result
// simply ships without a soundtrack.
func (o *AnalysisOrchestrator) compose(ctx context.Context, analysis *model.ArtifactAnalysis, category model.Category) string {
	if o.composer == nil {
		return ""
	}
	prompt := o.musicPrompt(ctx, analysis, category)
	musicURL, err := o.composer.Generate(ctx, prompt)
	if err != nil {
		slog.InfoContext(ctx, "music generation unavailable",
			slog.String("title", analysis.Title), slog.Any("error", err))
		return ""
	}
	return musicURL
}

// musicPrompt renders the configured composer prompt template, falling back
// to a plain prompt when no template is set or rendering fails.
func (o *AnalysisOrchestrator) musicPrompt(ctx context.Context, analysis *model.ArtifactAnalysis, category model.Category) string {
	emotions := analysis.Emotions
	if len(emotions) == 0 {
		emotions = model.DefaultEmotions
	}
	if o.musicTemplate != nil {
		var buffer strings.Builder
		err := o.musicTemplate.Execute(&buffer, map[string]interface{}{
			"SUBJECT_NAME": analysis.Title,
			"CATEGORY":     string(category),
			"EMOTIONS":     strings.Join(emotions, ", "),
			"STYLE":        analysis.StyleAnalysis,
		})
		if err == nil {
			return strings.TrimSpace(buffer.String())
		}
		slog.WarnContext(ctx, "failed to render music prompt template",
			slog.Any("error", err))
	}
	prompt := fmt.Sprintf("Ambient music evoking %s, with a mood of %s",
		analysis.Title, strings.Join(emotions, ", "))
	if analysis.StyleAnalysis != "" {
		prompt = prompt + ". " + analysis.StyleAnalysis
	}
	return prompt
}

// persist writes the live result back to the artifact store so the next
// visitor gets a cache hit. Failure to persist never fails the analysis.
func (o *AnalysisOrchestrator) persist(ctx context.Context, result *model.AnalysisResult) {
	if o.saver == nil {
		return
	}
	record := model.NewCachedAnalysis(result.Title, result.Category)
	record.Historical = result.Historical
	record.Immersive = result.Immersive
	record.Artist = result.Artist
	record.Emotions = result.Emotions
	record.AudioURL = result.AudioURL
	record.MusicURL = result.MusicURL
	record.ImageURL = result.ImageURL

	if err := o.saver.Save(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to persist analysis",
			slog.String("title", result.Title), slog.Any("error", err))
	}
}
