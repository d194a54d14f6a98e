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
	"time"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

const (
	// DefaultMinConfidence is the floor below which a detection is
	// rejected regardless of content, unless the deployment overrides it.
	DefaultMinConfidence = 0.3

	// dedupKeyLength is how much of the description participates in the
	// duplicate key.
	dedupKeyLength = 50

	// DefaultDedupWindow is how long an accepted key suppresses repeats.
	DefaultDedupWindow = 5 * time.Second
)

// RejectReason says why the normalizer dropped a detection. Rejections are
// silent from the user's perspective; the reason exists for logs and tests.
type RejectReason string

const (
	RejectNone          RejectReason = ""
	RejectBadCategory   RejectReason = "bad_category"
	RejectLowConfidence RejectReason = "low_confidence"
	RejectNoKeywords    RejectReason = "no_keywords"
	RejectDuplicate     RejectReason = "duplicate"
)

// Normalizer validates and deduplicates raw detections from the vision
// stream. It is a pure function of its dedup state and the keyword tables:
// it has no side effects beyond remembering the last accepted key.
type Normalizer struct {
	window        time.Duration
	minConfidence float64
	now           func() time.Time // Injectable clock for tests.
	lastKey       string
	lastAccepted  time.Time
}

// NewNormalizer creates a normalizer with the given dedup window and
// confidence floor. A zero or negative window falls back to
// DefaultDedupWindow; a non-positive floor falls back to
// DefaultMinConfidence.
func NewNormalizer(window time.Duration, minConfidence float64) *Normalizer {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Normalizer{window: window, minConfidence: minConfidence, now: time.Now}
}

// Accept applies the validation rules in order (category, confidence floor,
// keyword presence, duplicate suppression) and returns RejectNone when the
// detection should be processed. Accepting a detection records its dedup key.
func (n *Normalizer) Accept(d *model.Detection) RejectReason {
	if d == nil || !d.Category.Valid() {
		return RejectBadCategory
	}
	if d.Confidence < n.minConfidence {
		return RejectLowConfidence
	}
	if !hasCategoryKeyword(d.Category, d.Description, d.Title) {
		return RejectNoKeywords
	}

	key := dedupKey(d)
	at := n.now()
	if key == n.lastKey && at.Sub(n.lastAccepted) < n.window {
		return RejectDuplicate
	}

	n.lastKey = key
	n.lastAccepted = at
	return RejectNone
}

// dedupKey builds the repeat-suppression key from the category and the
// first 50 characters of the description.
func dedupKey(d *model.Detection) string {
	desc := d.Description
	if len(desc) > dedupKeyLength {
		desc = desc[:dedupKeyLength]
	}
	return string(d.Category) + "|" + desc
}
