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
// file provides example instances used for few-shot prompting: embedding a
// complete, well-formed JSON example in the prompt makes the generative
// model far more likely to return output the parse command can handle.
package model

// GetExampleAnalysis returns a fully populated ArtifactAnalysis used as the
// JSON example inside analysis prompts.
func GetExampleAnalysis() *ArtifactAnalysis {
	return &ArtifactAnalysis{
		Identified:        true,
		Title:             "The Starry Night",
		Artist:            "Vincent van Gogh",
		Year:              "1889",
		Type:              "oil painting",
		Description:       "A swirling night sky over a quiet village, painted from the window of an asylum in Saint-Rémy-de-Provence.",
		HistoricalContext: "Painted in June 1889 during van Gogh's stay at the Saint-Paul-de-Mausole asylum, a year before his death.",
		StyleAnalysis:     "Post-Impressionist, with thick impasto brushwork and an expressive, almost turbulent treatment of light.",
		Emotions:          []string{"wonder", "melancholy", "awe"},
	}
}
