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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
	"github.com/mansapatel111/artbeyondsight/internal/core/workflow"
)

type recordingSink struct {
	started []string
	stopped []string
}

func (r *recordingSink) Start(url string) error {
	r.started = append(r.started, url)
	return nil
}

func (r *recordingSink) Stop(url string) {
	r.stopped = append(r.stopped, url)
}

func TestFromCacheFillsNarrationDefaults(t *testing.T) {
	assembler := workflow.NewResultAssembler(scan.NewAudioSession(scan.NopSink{}))
	cached := model.NewCachedAnalysis("Trevi Fountain", model.CategoryMonuments)
	cached.Historical = "Completed in 1762 to a design by Nicola Salvi."

	result := assembler.FromCache(context.Background(), cached)

	assert.Equal(t, "Trevi Fountain", result.Title)
	assert.Equal(t, cached.Historical, result.Description)
	assert.Equal(t, cached.Historical, result.Immersive)
	assert.Equal(t, model.UnknownArtist, result.Artist)
	assert.Equal(t, model.DefaultEmotions, result.Emotions)
	assert.Equal(t, model.SourceCache, result.Source)
}

func TestFromCacheWithoutNarrationFallsBackToPlaceholderCopy(t *testing.T) {
	assembler := workflow.NewResultAssembler(scan.NewAudioSession(scan.NopSink{}))
	// A record saved with only name and category is legal; the assembled
	// result still needs readable copy in every narration field.
	cached := model.NewCachedAnalysis("Trevi Fountain", model.CategoryMonuments)

	result := assembler.FromCache(context.Background(), cached)

	assert.Equal(t, "Trevi Fountain", result.Title)
	assert.NotEmpty(t, result.Description)
	assert.NotEmpty(t, result.Historical)
	assert.NotEmpty(t, result.Immersive)
	assert.Equal(t,
		model.PlaceholderDescription(model.CategoryMonuments, model.PlaceholderFailure),
		result.Description)
}

func TestFromLiveKeepsAnalysisFields(t *testing.T) {
	assembler := workflow.NewResultAssembler(scan.NewAudioSession(scan.NopSink{}))
	analysis := &model.ArtifactAnalysis{
		Title:         "The Starry Night",
		Artist:        "Vincent van Gogh",
		Description:   "A swirling night sky over a quiet village.",
		StyleAnalysis: "Post-Impressionist impasto.",
		Emotions:      []string{"wonder"},
	}

	result := assembler.FromLive(context.Background(), analysis, model.CategoryMuseum, "https://audio.example/a.mp3", "https://music.example/a.mp3", "gs://frames/a.jpg")

	assert.Equal(t, "Vincent van Gogh", result.Artist)
	assert.Equal(t, []string{"wonder"}, result.Emotions)
	assert.Equal(t, "https://music.example/a.mp3", result.MusicURL)
	assert.Equal(t, analysis.Description, result.Historical)
	assert.Equal(t, model.SourceLive, result.Source)
	assert.NotEmpty(t, result.AnalysisId)
}

func TestPlaceholderNeverStartsPlayback(t *testing.T) {
	sink := &recordingSink{}
	assembler := workflow.NewResultAssembler(scan.NewAudioSession(sink))

	result := assembler.Placeholder(model.CategoryLandscape, model.PlaceholderFailure)

	assert.Equal(t, model.SourcePlaceholder, result.Source)
	assert.Equal(t, "", result.AudioURL)
	assert.Empty(t, sink.started)
}

func TestAutoplayStartsExactlyOncePerURL(t *testing.T) {
	sink := &recordingSink{}
	assembler := workflow.NewResultAssembler(scan.NewAudioSession(sink))
	cached := model.NewCachedAnalysis("Trevi Fountain", model.CategoryMonuments)
	cached.Historical = "Completed in 1762."
	cached.AudioURL = "https://audio.example/trevi.mp3"

	// The same result can be delivered through the push channel and a poll
	// endpoint; playback must still start only once.
	assembler.FromCache(context.Background(), cached)
	assembler.FromCache(context.Background(), cached)

	assert.Equal(t, []string{"https://audio.example/trevi.mp3"}, sink.started)
}

func TestAutoplayStopsPreviousTrackOnNewResult(t *testing.T) {
	sink := &recordingSink{}
	assembler := workflow.NewResultAssembler(scan.NewAudioSession(sink))

	first := model.NewCachedAnalysis("Trevi Fountain", model.CategoryMonuments)
	first.Historical = "Completed in 1762."
	first.AudioURL = "https://audio.example/trevi.mp3"
	second := model.NewCachedAnalysis("Mona Lisa", model.CategoryMuseum)
	second.Historical = "Painted by Leonardo da Vinci."
	second.AudioURL = "https://audio.example/mona.mp3"

	assembler.FromCache(context.Background(), first)
	assembler.FromCache(context.Background(), second)

	assert.Equal(t, []string{"https://audio.example/trevi.mp3", "https://audio.example/mona.mp3"}, sink.started)
	assert.Equal(t, []string{"https://audio.example/trevi.mp3"}, sink.stopped)
}
