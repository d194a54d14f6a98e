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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files. It provides a structured way to manage settings
// for Google Cloud services, AI models, Pub/Sub topics, prompt templates,
// and the third-party narration and music services.
//
// This file centralizes all configuration-related structs, making it easy
// to understand and manage the application's configurable parameters.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings defines the default content safety thresholds for GenAI models.
// The scanner only ever describes public artworks, monuments, and landscapes, so the
// thresholds are non-restrictive across all harm categories.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// BigQueryDataSource represents the configuration for the BigQuery data source.
type BigQueryDataSource struct {
	DatasetName   string `toml:"dataset"`        // The name of the BigQuery dataset.
	ArtifactTable string `toml:"artifact_table"` // The table holding completed artifact analyses.
}

// PromptTemplates holds the templates for different types of prompts.
type PromptTemplates struct {
	NamePrompt   string `toml:"name"`   // Template for analyzing a subject by name.
	VisionPrompt string `toml:"vision"` // Template for analyzing a subject from a camera frame.
	MusicPrompt  string `toml:"music"`  // Template used to derive an ambient music prompt.
}

// VertexAiLLMModel represents the configuration for a Vertex AI large language model (LLM).
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`               // The name of the Vertex AI LLM.
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the LLM.
	Temperature        float32 `toml:"temperature"`         // The temperature parameter for the LLM.
	TopP               float32 `toml:"top_p"`               // The top_p parameter for the LLM.
	TopK               float32 `toml:"top_k"`               // The top_k parameter for the LLM.
	MaxTokens          int32   `toml:"max_tokens"`          // The maximum number of tokens for the LLM output.
	OutputFormat       string  `toml:"output_format"`       // The desired output format for the LLM.
	RateLimit          int     `toml:"rate_limit"`          // The rate limit for the LLM in requests per second.
}

// TopicSubscription represents the configuration for a Pub/Sub topic subscription.
type TopicSubscription struct {
	Name             string `toml:"name"`               // The name of the Pub/Sub subscription.
	DeadLetterTopic  string `toml:"dead_letter_topic"`  // The name of the dead-letter topic for the subscription.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // The timeout for the subscription in seconds.
}

// Storage represents the configuration for storage buckets.
type Storage struct {
	FrameBucket  string `toml:"frame_bucket"`  // The bucket where captured camera frames are staged for analysis.
	UploadBucket string `toml:"upload_bucket"` // The bucket for user-submitted images awaiting analysis.
}

// Scanner holds the tunables for the detection pipeline. Durations are in
// seconds so they read naturally in the TOML file.
type Scanner struct {
	HoldDelaySeconds       int     `toml:"hold_delay_seconds"`       // How long a detection must hold steady before analysis begins.
	DedupWindowSeconds     int     `toml:"dedup_window_seconds"`     // Window in which repeated detections of the same subject are dropped.
	AnalysisTimeoutSeconds int     `toml:"analysis_timeout_seconds"` // Hard ceiling on a single end-to-end analysis.
	MinConfidence          float64 `toml:"min_confidence"`           // Detections below this confidence are discarded.
}

// Narration configures the external text-to-speech service used for spoken
// announcements and narration audio.
type Narration struct {
	APIKey   string `toml:"api_key"`  // API key for the TTS provider. Required.
	Endpoint string `toml:"endpoint"` // Base URL of the TTS API.
	VoiceId  string `toml:"voice_id"` // The voice used for narration.
}

// Music configures the external music generation service used for the
// optional ambient soundtrack.
type Music struct {
	APIKey       string `toml:"api_key"`       // API key for the music provider. Required when enabled.
	Endpoint     string `toml:"endpoint"`      // Base URL of the music generation API.
	Style        string `toml:"style"`         // Default musical style for generated tracks.
	NegativeTags string `toml:"negative_tags"` // Styles the generator should avoid.
	Instrumental bool   `toml:"instrumental"`  // Whether generated tracks should be instrumental only.
}

// Config represents the overall configuration for the application, loaded from TOML files.
// It acts as the root container for all other configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name                      string `toml:"name"`                         // The name of the application.
		GoogleProjectId           string `toml:"google_project_id"`            // The Google Cloud project ID.
		GoogleLocation            string `toml:"location"`                     // The Google Cloud location.
		SignerServiceAccountEmail string `toml:"signer_service_account_email"` // The service account email used for signing GCS URLs.
	} `toml:"application"`
	Storage            Storage                      `toml:"storage"`               // Storage configuration.
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"` // BigQuery data source configuration.
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`      // Prompt templates configuration.
	Scanner            Scanner                      `toml:"scanner"`               // Detection pipeline tunables.
	Narration          Narration                    `toml:"narration"`             // Text-to-speech configuration.
	Music              Music                        `toml:"music"`                 // Music generation configuration.
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"`   // A map of Pub/Sub topic subscriptions, keyed by a logical name (e.g., "DetectionTopic").
	AgentModels        map[string]VertexAiLLMModel  `toml:"agent_models"`          // A map of Vertex AI LLM models, keyed by a logical name (e.g., "curator-flash").
}

// NewConfig is a constructor function that creates a new, initialized Config instance.
// The maps must be initialized up front so the TOML decoder has something to
// populate.
func NewConfig() *Config {
	return &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
	}
}
