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

package scan

import (
	"regexp"
	"strings"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// The extraction heuristics, in order of preference. These are deliberately
// isolated here so they can be swapped without touching control flow: the
// caller only ever gets a best-guess name back, never an error.
var (
	// "a painting of the Mona Lisa", "image of Trevi Fountain"
	ofPattern = regexp.MustCompile(`(?i)\b(?:painting|portrait|sculpture|statue|photo|photograph|image|picture|view|mural)\s+of\s+(?:the\s+)?([^,.;]+)`)

	// "The Starry Night painting", "Eiffel Tower monument": a run of
	// capitalized words immediately before a medium noun.
	capitalizedPattern = regexp.MustCompile(`\b((?:[A-Z][\w'’-]*\s+)*[A-Z][\w'’-]*)\s+(?:painting|sculpture|statue|monument|cathedral|tower|bridge|canvas|memorial)\b`)
)

// ExtractSubjectName derives a candidate subject name from a free-text
// scene description. When no pattern matches, it returns the input
// unmodified: the raw description is still a usable (if weak) query.
func ExtractSubjectName(description string) string {
	if m := ofPattern.FindStringSubmatch(description); m != nil {
		if name := strings.TrimSpace(m[1]); len(name) > 0 {
			return name
		}
	}
	if m := capitalizedPattern.FindStringSubmatch(description); m != nil {
		name := strings.TrimSpace(m[1])
		// A lone sentence-initial capital is not a name.
		if strings.Contains(name, " ") || !strings.HasPrefix(description, name) {
			return name
		}
	}
	return description
}

// SubjectName returns the best available name for a detection: the
// detector-supplied title when present, otherwise whatever the heuristics
// can pull out of the description.
func SubjectName(d *model.Detection) string {
	if len(d.Title) > 0 {
		return d.Title
	}
	return ExtractSubjectName(d.Description)
}
