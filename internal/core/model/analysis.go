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

// Package model defines the core data structures for the application. This
// file holds the analysis-side models: the structured response the
// generative model returns, the persisted record of a prior analysis, and
// the merged result the presentation layer renders. The result model is
// deliberately total: every failure path still produces a title, artist,
// description and category-appropriate copy, so the UI never has to render
// an undefined state.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ResultSource records which strategy produced an AnalysisResult.
type ResultSource string

const (
	SourceCache       ResultSource = "cache"
	SourceLive        ResultSource = "live"
	SourcePlaceholder ResultSource = "placeholder"
)

// DefaultEmotions is the fallback emotion tag list applied when the
// analysis service returns none. The music prompt templates key off these.
var DefaultEmotions = []string{"wonder", "curiosity", "calm"}

// UnknownArtist is the attribution used when no artist could be determined.
const UnknownArtist = "Unknown Artist"

// ArtifactAnalysis is the structured payload the generative analysis
// service produces for one subject, whether queried by name or by image.
// The service does not guarantee a pure-JSON response; the parse command
// extracts the first well-formed object from the surrounding prose.
type ArtifactAnalysis struct {
	Identified        bool     `json:"identified"`
	Title             string   `json:"title"`
	Artist            string   `json:"artist,omitempty"`
	Year              string   `json:"year,omitempty"`
	Type              string   `json:"type,omitempty"`
	Description       string   `json:"description"`
	HistoricalContext string   `json:"historical_context,omitempty"`
	StyleAnalysis     string   `json:"style_analysis,omitempty"`
	Emotions          []string `json:"emotions,omitempty"`
}

// Recognized reports whether the service actually recognized a subject. The
// prompts instruct the model to set identified to false when unsure; a
// response that claims identification but carries no title still reads as
// unrecognized, triggering the fall back to a richer query.
func (a *ArtifactAnalysis) Recognized() bool {
	return a != nil && a.Identified && len(a.Title) > 0
}

// CachedAnalysis is a previously computed analysis persisted in the
// artifact store. It is read-only input from the pipeline's perspective.
type CachedAnalysis struct {
	Id         string    `json:"id" bigquery:"id"`
	Name       string    `json:"name" bigquery:"name"` // Subject name the record is filed under.
	Category   Category  `json:"category" bigquery:"category"`
	Historical string    `json:"historical" bigquery:"historical"` // Historical narration text.
	Immersive  string    `json:"immersive" bigquery:"immersive"`   // Immersive narration text.
	Artist     string    `json:"artist" bigquery:"artist"`
	Emotions   []string  `json:"emotions" bigquery:"emotions"`
	AudioURL   string    `json:"audio_url" bigquery:"audio_url"` // Narration audio, when any.
	MusicURL   string    `json:"music_url" bigquery:"music_url"` // Generated ambient track, when any.
	ImageURL   string    `json:"image_url" bigquery:"image_url"`
	CreateDate time.Time `json:"create_date" bigquery:"create_date"`
}

// NewCachedAnalysis creates a record for a named subject. The id is a
// UUIDv5 hash of the name so re-saving the same subject produces the same
// row id.
func NewCachedAnalysis(name string, category Category) *CachedAnalysis {
	return &CachedAnalysis{
		Id:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String(),
		Name:       name,
		Category:   category,
		Emotions:   make([]string, 0),
		CreateDate: time.Now(),
	}
}

// AnalysisResult is the merged, display-ready model produced by the result
// assembler, whatever the source. Title and Description are always
// non-empty. An empty AudioURL means no playback is available, which
// downstream treats differently from playback in progress.
type AnalysisResult struct {
	AnalysisId  string       `json:"analysis_id,omitempty"` // Id of the source cached record, when one exists.
	Title       string       `json:"title"`
	Artist      string       `json:"artist"`
	Category    Category     `json:"category"`
	Description string       `json:"description"`
	Historical  string       `json:"historical,omitempty"`
	Immersive   string       `json:"immersive,omitempty"`
	Emotions    []string     `json:"emotions"`
	AudioURL    string       `json:"audio_url,omitempty"`
	MusicURL    string       `json:"music_url,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	Source      ResultSource `json:"source"`
	CreateDate  time.Time    `json:"create_date"`
}
