// Copyright 2025 Art Beyond Sight
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
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
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"

	"github.com/mansapatel111/artbeyondsight/internal/cloud"
)

// A cancelled caller must end the request cycle at the rate-limit gate,
// before the wrapper ever reaches the underlying model or sleeps between
// retries. The model handle is nil on purpose: touching it would panic.
func TestGenerateContentStopsOnCancelledContext(t *testing.T) {
	model := cloud.NewQuotaAwareModel(nil, "test-model", nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := model.GenerateContent(ctx, nil)

	assert.Nil(t, resp)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGenerateContentStopsOnExpiredDeadline(t *testing.T) {
	model := cloud.NewQuotaAwareModel(nil, "test-model", nil, 1)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := model.GenerateContent(ctx, nil)

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

// The retry helper must surface the caller's cancellation instead of
// burning attempts against a request that can no longer succeed.
func TestGenerateMultiModalResponseStopsOnCancelledContext(t *testing.T) {
	meter := otel.Meter("cloud-tests")
	inTokens, _ := meter.Int64Counter("test.token.input")
	outTokens, _ := meter.Int64Counter("test.token.output")
	retries, _ := meter.Int64Counter("test.token.retry")

	model := cloud.NewQuotaAwareModel(nil, "test-model", nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cloud.GenerateMultiModalResponse(ctx, inTokens, outTokens, retries, 0, model, nil)

	assert.True(t, errors.Is(err, context.Canceled))
}
