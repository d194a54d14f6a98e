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

package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// ArtifactFinder is the slice of the artifact store the resolver needs.
type ArtifactFinder interface {
	SearchByName(ctx context.Context, name string) ([]*model.CachedAnalysis, error)
}

// CacheResolver answers the question "have we already analyzed this
// subject?" against the artifact store. A failed or empty lookup is a
// miss, never an error: a broken cache must not stop a live analysis.
type CacheResolver struct {
	finder ArtifactFinder
}

func NewCacheResolver(finder ArtifactFinder) *CacheResolver {
	return &CacheResolver{finder: finder}
}

// Resolve returns the best stored match for the subject name, or nil on a
// miss. Candidates are ranked by match strength: an exact name match
// (ignoring case) beats a stored name contained in the query, which beats
// the query contained in a stored name. Within a tier the store's own
// ordering (newest first) decides.
func (r *CacheResolver) Resolve(ctx context.Context, subjectName string) *model.CachedAnalysis {
	query := strings.TrimSpace(subjectName)
	if query == "" {
		return nil
	}

	candidates, err := r.finder.SearchByName(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "artifact cache lookup failed, treating as miss",
			slog.String("subject", query), slog.Any("error", err))
		return nil
	}

	var storedInQuery, queryInStored *model.CachedAnalysis
	lowerQuery := strings.ToLower(query)
	for _, c := range candidates {
		stored := strings.ToLower(strings.TrimSpace(c.Name))
		if stored == "" {
			continue
		}
		switch {
		case stored == lowerQuery:
			return c
		case strings.Contains(lowerQuery, stored):
			if storedInQuery == nil {
				storedInQuery = c
			}
		case strings.Contains(stored, lowerQuery):
			if queryInStored == nil {
				queryInStored = c
			}
		}
	}
	if storedInQuery != nil {
		return storedInQuery
	}
	return queryInStored
}
