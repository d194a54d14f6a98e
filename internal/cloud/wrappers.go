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

// Package cloud provides components for interacting with Google Cloud services.
// This file implements a decorator around the Generative AI client that adds
// rate limiting and a retry mechanism. Vertex AI enforces per-minute quotas,
// and a scanner pointed at a busy gallery wall can easily produce bursts of
// analysis requests that would otherwise trip them.
package cloud

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// QuotaAwareGenerativeAIModel wraps a configured generative model with a rate
// limiter. Callers use it exactly like the underlying model; the wrapper
// transparently queues requests that would exceed quota.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             *genai.Models
	RateLimit               rate.Limiter
}

// NewQuotaAwareModel creates a new QuotaAwareGenerativeAIModel from the base
// model configuration and a rate limit in requests per second.
func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, modelHandle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             modelHandle,
		RateLimit:               *rate.NewLimiter(rate.Every(time.Second/1), requestsPerSecond),
	}
}

// GenerateContent enforces the rate limit before delegating to the underlying
// model, and retries failed calls up to MaxRetries with a cool-down between
// attempts. Every wait honors ctx, so a caller's deadline ends the retry
// cycle instead of the cycle outliving it.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (resp *genai.GenerateContentResponse, err error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err = q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
	if err != nil {
		retryCount, ok := ctx.Value(retryCountKey{}).(int)
		if !ok {
			retryCount = 0
		}
		if retryCount >= MaxRetries {
			return nil, errors.New("failed generation on max retries")
		}
		errCtx := context.WithValue(ctx, retryCountKey{}, retryCount+1)
		// Give the service time to recover before retrying, unless the
		// caller gives up first.
		select {
		case <-time.After(retryCoolDown):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return q.GenerateContent(errCtx, content)
	}
	return resp, err
}

// retryCoolDown is the pause between attempts after a failed model call.
const retryCoolDown = time.Minute

type retryCountKey struct{}
