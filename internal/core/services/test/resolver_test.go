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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
	"github.com/mansapatel111/artbeyondsight/internal/core/services"
)

type stubFinder struct {
	results []*model.CachedAnalysis
	err     error
	calls   int
}

func (s *stubFinder) SearchByName(_ context.Context, _ string) ([]*model.CachedAnalysis, error) {
	s.calls++
	return s.results, s.err
}

func cached(name string) *model.CachedAnalysis {
	return &model.CachedAnalysis{Id: name, Name: name}
}

func TestResolveExactMatchWinsRegardlessOfOrder(t *testing.T) {
	finder := &stubFinder{results: []*model.CachedAnalysis{
		cached("Starry Night Replica"),
		cached("starry night"),
	}}
	resolver := services.NewCacheResolver(finder)

	hit := resolver.Resolve(context.Background(), "Starry Night")
	assert.NotNil(t, hit)
	assert.Equal(t, "starry night", hit.Name)
}

func TestResolveStoredNameInsideQueryBeatsQueryInsideStored(t *testing.T) {
	finder := &stubFinder{results: []*model.CachedAnalysis{
		cached("The Starry Night by Vincent van Gogh"),
		cached("Starry"),
	}}
	resolver := services.NewCacheResolver(finder)

	hit := resolver.Resolve(context.Background(), "The Starry Night")
	assert.NotNil(t, hit)
	assert.Equal(t, "Starry", hit.Name)
}

func TestResolveQueryInsideStoredName(t *testing.T) {
	finder := &stubFinder{results: []*model.CachedAnalysis{
		cached("The Starry Night by Vincent van Gogh"),
	}}
	resolver := services.NewCacheResolver(finder)

	hit := resolver.Resolve(context.Background(), "Starry Night")
	assert.NotNil(t, hit)
	assert.Equal(t, "The Starry Night by Vincent van Gogh", hit.Name)
}

func TestResolveMissOnNoRelation(t *testing.T) {
	finder := &stubFinder{results: []*model.CachedAnalysis{
		cached("Mona Lisa"),
	}}
	resolver := services.NewCacheResolver(finder)
	assert.Nil(t, resolver.Resolve(context.Background(), "Starry Night"))
}

func TestResolveStoreErrorIsAMiss(t *testing.T) {
	finder := &stubFinder{err: errors.New("table unavailable")}
	resolver := services.NewCacheResolver(finder)
	assert.Nil(t, resolver.Resolve(context.Background(), "Starry Night"))
}

func TestResolveEmptySubjectSkipsLookup(t *testing.T) {
	finder := &stubFinder{}
	resolver := services.NewCacheResolver(finder)
	assert.Nil(t, resolver.Resolve(context.Background(), "   "))
	assert.Equal(t, 0, finder.calls)
}
