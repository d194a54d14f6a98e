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

package model

// PlaceholderReason distinguishes why a placeholder result was produced;
// timeouts get their own user-facing copy.
type PlaceholderReason string

const (
	PlaceholderFailure PlaceholderReason = "failure"
	PlaceholderTimeout PlaceholderReason = "timeout"
)

// placeholderCopy is the user-safe fallback text per category. The user
// never sees a blank result for a recognized detection, so every category
// carries a full title plus description.
var placeholderCopy = map[Category]struct {
	Title       string
	Description string
}{
	CategoryMuseum: {
		Title:       "Unknown Artwork",
		Description: "A captivating work of art. We couldn't identify this piece right now, but take a closer look — every detail was placed there on purpose.",
	},
	CategoryMonuments: {
		Title:       "Historical Monument",
		Description: "A structure with a story. We couldn't pull up its history right now, but monuments like this one usually mark a moment a community wanted to remember.",
	},
	CategoryLandscape: {
		Title:       "Natural Landscape",
		Description: "A striking natural scene. We couldn't analyze this view right now, but landscapes like this are shaped over thousands of years.",
	},
}

const timeoutSuffix = " The analysis took longer than expected — try holding the camera steady and scanning again."

// PlaceholderTitle returns the fallback title for a category. Unknown
// categories fall back to the museum copy.
func PlaceholderTitle(category Category) string {
	if c, ok := placeholderCopy[category]; ok {
		return c.Title
	}
	return placeholderCopy[CategoryMuseum].Title
}

// PlaceholderDescription returns the fallback description for a category,
// with distinct copy when the analysis timed out rather than failed.
func PlaceholderDescription(category Category, reason PlaceholderReason) string {
	c, ok := placeholderCopy[category]
	if !ok {
		c = placeholderCopy[CategoryMuseum]
	}
	if reason == PlaceholderTimeout {
		return c.Description + timeoutSuffix
	}
	return c.Description
}
