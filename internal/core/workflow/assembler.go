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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the result assembler, the last stop before an analysis reaches the user.
//
// The assembler's job is to guarantee the client never receives a partial
// result: every field has a sensible value no matter which path produced it,
// and narration audio starts exactly once per result.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
)

// ResultAssembler normalizes analysis output from the cache, live, and
// placeholder paths into a complete AnalysisResult, and owns starting
// narration playback through the shared audio session.
type ResultAssembler struct {
	audio *scan.AudioSession
}

func NewResultAssembler(audio *scan.AudioSession) *ResultAssembler {
	return &ResultAssembler{audio: audio}
}

// FromCache builds a result from a stored analysis. Missing narration fields
// fall back to the stored description so the user always hears something.
func (a *ResultAssembler) FromCache(ctx context.Context, cached *model.CachedAnalysis) *model.AnalysisResult {
	result := &model.AnalysisResult{
		AnalysisId: cached.Id,
		Title:      cached.Name,
		Artist:     cached.Artist,
		Category:   model.Category(cached.Category),
		Historical: cached.Historical,
		Immersive:  cached.Immersive,
		Emotions:   cached.Emotions,
		AudioURL:   cached.AudioURL,
		MusicURL:   cached.MusicURL,
		ImageURL:   cached.ImageURL,
		Source:     model.SourceCache,
		CreateDate: cached.CreateDate,
	}
	a.applyDefaults(result, cached.Historical)
	a.autoplay(ctx, result)
	return result
}

// FromLive builds a result from a freshly generated analysis. Any of the
// three URLs may be empty when its producing service failed or was skipped.
func (a *ResultAssembler) FromLive(ctx context.Context, analysis *model.ArtifactAnalysis, category model.Category, audioURL, musicURL, imageURL string) *model.AnalysisResult {
	record := model.NewCachedAnalysis(analysis.Title, category)
	result := &model.AnalysisResult{
		AnalysisId:  record.Id,
		Title:       analysis.Title,
		Artist:      analysis.Artist,
		Category:    category,
		Description: analysis.Description,
		Historical:  analysis.HistoricalContext,
		Immersive:   analysis.StyleAnalysis,
		Emotions:    analysis.Emotions,
		AudioURL:    audioURL,
		MusicURL:    musicURL,
		ImageURL:    imageURL,
		Source:      model.SourceLive,
		CreateDate:  record.CreateDate,
	}
	a.applyDefaults(result, analysis.Description)
	a.autoplay(ctx, result)
	return result
}

// Placeholder builds the "we could not identify this" result. Placeholders
// carry user-safe copy per category and never start audio playback.
func (a *ResultAssembler) Placeholder(category model.Category, reason model.PlaceholderReason) *model.AnalysisResult {
	description := model.PlaceholderDescription(category, reason)
	result := &model.AnalysisResult{
		Title:       model.PlaceholderTitle(category),
		Artist:      model.UnknownArtist,
		Category:    category,
		Description: description,
		Historical:  description,
		Immersive:   description,
		Emotions:    model.DefaultEmotions,
		Source:      model.SourcePlaceholder,
		CreateDate:  time.Now(),
	}
	return result
}

// applyDefaults fills any empty narration field with the fallback text and
// guarantees title, artist, and emotions are never empty. A record stored
// with no narration text at all still yields placeholder copy rather than a
// blank result.
func (a *ResultAssembler) applyDefaults(result *model.AnalysisResult, fallback string) {
	if fallback == "" {
		fallback = model.PlaceholderDescription(result.Category, model.PlaceholderFailure)
	}
	if result.Title == "" {
		result.Title = model.PlaceholderTitle(result.Category)
	}
	if result.Description == "" {
		result.Description = fallback
	}
	if result.Historical == "" {
		result.Historical = result.Description
	}
	if result.Immersive == "" {
		result.Immersive = result.Description
	}
	if result.Artist == "" {
		result.Artist = model.UnknownArtist
	}
	if len(result.Emotions) == 0 {
		result.Emotions = model.DefaultEmotions
	}
}

// autoplay starts narration through the shared session. The session is
// idempotent for a given URL, so a result delivered through both the push
// channel and a poll endpoint still plays once.
func (a *ResultAssembler) autoplay(ctx context.Context, result *model.AnalysisResult) {
	if a.audio == nil || result.AudioURL == "" {
		return
	}
	if err := a.audio.Play(result.AudioURL); err != nil {
		slog.WarnContext(ctx, "failed to start narration playback",
			slog.String("audio_url", result.AudioURL), slog.Any("error", err))
	}
}
