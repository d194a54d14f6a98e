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

// Package services contains the business logic for interacting with data
// sources. This file defines the ArtifactService, the data access layer
// over the BigQuery table of previously computed analyses. The pipeline
// consults it before spending money on a live generative query, and writes
// completed live analyses back so the next visitor gets a cache hit.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// ArtifactService encapsulates the clients and table coordinates for
// artifact persistence and retrieval.
type ArtifactService struct {
	BigqueryClient *bigquery.Client
	StorageClient  *storage.Client
	IAMClient      *credentials.IamCredentialsClient // Used for URL signing on managed infrastructure.
	SignerEmail    string                            // Service account that signs GCS URLs.
	DatasetName    string
	ArtifactTable  string
}

// GetFQN returns the fully qualified, dot-separated artifact table name
// usable inside standard SQL, e.g. `project-id.sight_data.artifacts`.
func (s *ArtifactService) GetFQN() string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.ArtifactTable).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

// Get retrieves a single stored analysis by row id.
func (s *ArtifactService) Get(ctx context.Context, id string) (*model.CachedAnalysis, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryFindArtifactById, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "id", Value: id}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	record := &model.CachedAnalysis{}
	if err := itr.Next(record); err != nil {
		return nil, err
	}
	return record, nil
}

// SearchByName returns every stored analysis whose name fuzzily relates to
// the query, newest first. Callers treat an error the same as an empty
// result; cache lookup failure is never fatal to the pipeline.
func (s *ArtifactService) SearchByName(ctx context.Context, name string) ([]*model.CachedAnalysis, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QrySearchArtifactsByName, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "name", Value: name}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*model.CachedAnalysis, 0)
	for {
		record := &model.CachedAnalysis{}
		err := itr.Next(record)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// List pages through stored analyses, optionally filtered by category.
func (s *ArtifactService) List(ctx context.Context, category model.Category, limit int) ([]*model.CachedAnalysis, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.BigqueryClient.Query(fmt.Sprintf(QryListArtifacts, s.GetFQN(), limit))
	q.Parameters = []bigquery.QueryParameter{{Name: "category", Value: string(category)}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*model.CachedAnalysis, 0, limit)
	for {
		record := &model.CachedAnalysis{}
		err := itr.Next(record)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// Save writes a record through the table's streaming inserter.
func (s *ArtifactService) Save(ctx context.Context, record *model.CachedAnalysis) error {
	inserter := s.BigqueryClient.Dataset(s.DatasetName).Table(s.ArtifactTable).Inserter()
	return inserter.Put(ctx, record)
}

// GenerateSignedURL creates a time-limited URL for a private GCS object so
// the analysis service (and the client app) can fetch uploaded frames
// without credentials of their own.
func (s *ArtifactService) GenerateSignedURL(ctx context.Context, bucket, object string, expires time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expires),
	}
	u, err := s.StorageClient.Bucket(bucket).SignedURL(object, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).Object(%q).SignedURL: %w", bucket, object, err)
	}
	return u, nil
}
