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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
)

func TestExtractSubjectFromOfPhrase(t *testing.T) {
	assert.Equal(t, "Mona Lisa",
		scan.ExtractSubjectName("a painting of the Mona Lisa"))
	assert.Equal(t, "Trevi Fountain",
		scan.ExtractSubjectName("an image of Trevi Fountain, lit at night"))
	assert.Equal(t, "a swirling night sky",
		scan.ExtractSubjectName("a painting of a swirling night sky. It hangs in a gallery"))
}

func TestExtractSubjectFromCapitalizedRun(t *testing.T) {
	assert.Equal(t, "Eiffel Tower",
		scan.ExtractSubjectName("the Eiffel Tower monument seen from below"))
}

func TestExtractSubjectFallsBackToDescription(t *testing.T) {
	in := "brightly colored abstract shapes"
	assert.Equal(t, in, scan.ExtractSubjectName(in))
}

func TestSubjectNamePrefersDetectorTitle(t *testing.T) {
	d := model.NewDetection(model.CategoryMuseum, 0.9, "a painting of a swirling night sky", "The Starry Night")
	assert.Equal(t, "The Starry Night", scan.SubjectName(d))

	d.Title = ""
	assert.Equal(t, "a swirling night sky", scan.SubjectName(d))
}
