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

// Package scan contains the detection-side pipeline: normalizing the raw
// vision stream, holding and locking onto a single subject, and the shared
// audio session. This file holds the curated per-category vocabularies used
// to suppress false positives: a detection tagged "museum" whose
// description never mentions anything art-related is noise, not a sighting.
package scan

import (
	"strings"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// categoryKeywords maps each category to the vocabulary at least one of
// which must appear in a detection's description or title. The lists cover
// medium terms for museums, structural terms for monuments and nature terms
// for landscapes.
var categoryKeywords = map[model.Category][]string{
	model.CategoryMuseum: {
		"painting", "art", "artwork", "sculpture", "canvas", "portrait",
		"gallery", "exhibit", "fresco", "mural", "drawing", "sketch",
		"watercolor", "oil", "artist", "masterpiece", "frame", "brushwork",
		"ceramic", "tapestry",
	},
	model.CategoryMonuments: {
		"monument", "statue", "memorial", "building", "tower", "arch",
		"cathedral", "church", "temple", "column", "facade", "castle",
		"bridge", "fountain", "plaza", "landmark", "ruins", "architecture",
		"dome", "spire",
	},
	model.CategoryLandscape: {
		"mountain", "river", "lake", "forest", "valley", "ocean", "sea",
		"sky", "sunset", "sunrise", "tree", "waterfall", "field", "meadow",
		"cliff", "beach", "hill", "horizon", "nature", "canyon",
	},
}

// hasCategoryKeyword reports whether any of the texts contains at least one
// keyword from the category's vocabulary. Matching is case-insensitive
// substring matching; an unknown category never matches.
func hasCategoryKeyword(category model.Category, texts ...string) bool {
	keywords, ok := categoryKeywords[category]
	if !ok {
		return false
	}
	for _, text := range texts {
		if len(text) == 0 {
			continue
		}
		lower := strings.ToLower(text)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
