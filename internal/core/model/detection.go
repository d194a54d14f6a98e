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
// file holds the detection-side models: the candidate sightings the vision
// stream emits while the user sweeps the camera across a gallery or a
// street. Detections are transient; they are never persisted, only held long
// enough to decide whether they are worth analyzing.
package model

import "time"

// Category classifies the subject domain of a detection. The three values
// are mutually exclusive and drive keyword validation, prompt selection and
// placeholder copy.
type Category string

const (
	CategoryMuseum    Category = "museum"
	CategoryMonuments Category = "monuments"
	CategoryLandscape Category = "landscape"
)

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMuseum, CategoryMonuments, CategoryLandscape:
		return true
	}
	return false
}

// Detection is a single candidate sighting emitted by the vision stream.
// The stream produces many of these per second for one physical subject as
// the camera wavers, which is why the scan session debounces and locks
// before committing to an analysis.
type Detection struct {
	Timestamp   time.Time `json:"timestamp"`       // Creation time; used for identity, ordering and UI keying.
	Category    Category  `json:"category"`        // Subject domain reported by the detector.
	Confidence  float64   `json:"confidence"`      // Detector score in [0,1].
	Description string    `json:"description"`     // Free-text scene description from the detector.
	Title       string    `json:"title,omitempty"` // Candidate subject name, when the detector supplies one.
	Frame       []byte    `json:"frame,omitempty"` // Captured frame bytes, used by the image-based analysis fallback.
	Analyzing   bool      `json:"analyzing"`       // True while this detection is being processed.
}

// NewDetection stamps a detection with the current time.
func NewDetection(category Category, confidence float64, description, title string) *Detection {
	return &Detection{
		Timestamp:   time.Now(),
		Category:    category,
		Confidence:  confidence,
		Description: description,
		Title:       title,
	}
}

// GuidanceEvent is the periodic in-frame/out-of-frame signal the vision
// stream emits alongside detections. Losing the subject from frame releases
// the scan session's lock early.
type GuidanceEvent struct {
	InFrame bool      `json:"in_frame"`
	Seen    time.Time `json:"seen"`
}
