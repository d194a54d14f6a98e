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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
)

func TestAcceptValidDetection(t *testing.T) {
	n := scan.NewNormalizer(scan.DefaultDedupWindow, 0)
	d := model.NewDetection(model.CategoryMuseum, 0.85, "A painting of a swirling night sky", "")
	assert.Equal(t, scan.RejectNone, n.Accept(d))
}

func TestRejectInvalidCategory(t *testing.T) {
	n := scan.NewNormalizer(scan.DefaultDedupWindow, 0)
	d := model.NewDetection(model.Category("food"), 0.9, "A painting of a bowl of fruit", "")
	assert.Equal(t, scan.RejectBadCategory, n.Accept(d))
	assert.Equal(t, scan.RejectBadCategory, n.Accept(nil))
}

func TestRejectLowConfidence(t *testing.T) {
	n := scan.NewNormalizer(scan.DefaultDedupWindow, 0)
	d := model.NewDetection(model.CategoryMuseum, 0.29, "A painting of a swirling night sky", "")
	assert.Equal(t, scan.RejectLowConfidence, n.Accept(d))

	// Exactly at the floor passes.
	d = model.NewDetection(model.CategoryMuseum, 0.3, "A painting of a swirling night sky", "")
	assert.Equal(t, scan.RejectNone, n.Accept(d))
}

func TestConfiguredConfidenceFloorOverridesDefault(t *testing.T) {
	n := scan.NewNormalizer(scan.DefaultDedupWindow, 0.6)
	d := model.NewDetection(model.CategoryMuseum, 0.45, "A painting of a swirling night sky", "")
	assert.Equal(t, scan.RejectLowConfidence, n.Accept(d))

	d = model.NewDetection(model.CategoryMuseum, 0.6, "A painting of a swirling night sky", "")
	assert.Equal(t, scan.RejectNone, n.Accept(d))
}

func TestRejectOffVocabularyDescription(t *testing.T) {
	n := scan.NewNormalizer(scan.DefaultDedupWindow, 0)
	d := model.NewDetection(model.CategoryMuseum, 0.9, "A person walking a dog", "")
	assert.Equal(t, scan.RejectNoKeywords, n.Accept(d))
}

func TestKeywordInTitleCountsToo(t *testing.T) {
	n := scan.NewNormalizer(scan.DefaultDedupWindow, 0)
	d := model.NewDetection(model.CategoryMonuments, 0.9, "A tall structure against the sky", "Washington Monument")
	assert.Equal(t, scan.RejectNone, n.Accept(d))
}

func TestDuplicateSuppressedWithinWindow(t *testing.T) {
	n := scan.NewNormalizer(50*time.Millisecond, 0)
	first := model.NewDetection(model.CategoryLandscape, 0.8, "A mountain lake at sunset", "")
	second := model.NewDetection(model.CategoryLandscape, 0.8, "A mountain lake at sunset", "")

	assert.Equal(t, scan.RejectNone, n.Accept(first))
	assert.Equal(t, scan.RejectDuplicate, n.Accept(second))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, scan.RejectNone, n.Accept(second))
}

func TestDedupKeyUsesDescriptionPrefix(t *testing.T) {
	n := scan.NewNormalizer(time.Second, 0)
	prefix := strings.Repeat("a mountain ", 5) // Longer than the 50-char key prefix.
	first := model.NewDetection(model.CategoryLandscape, 0.8, prefix+"with snow", "")
	second := model.NewDetection(model.CategoryLandscape, 0.8, prefix+"with goats", "")

	assert.Equal(t, scan.RejectNone, n.Accept(first))
	// Same first 50 characters, so the second is a duplicate even though
	// the full descriptions differ.
	assert.Equal(t, scan.RejectDuplicate, n.Accept(second))
}

func TestDifferentCategoryIsNotADuplicate(t *testing.T) {
	n := scan.NewNormalizer(time.Second, 0)
	first := model.NewDetection(model.CategoryLandscape, 0.8, "A mountain statue garden view", "")
	second := model.NewDetection(model.CategoryMonuments, 0.8, "A mountain statue garden view", "")

	assert.Equal(t, scan.RejectNone, n.Accept(first))
	assert.Equal(t, scan.RejectNone, n.Accept(second))
}
