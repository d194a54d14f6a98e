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
	"os"
	"testing"

	"github.com/mansapatel111/artbeyondsight/internal/telemetry"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

// Shared telemetry for the workflow test suite. The orchestrator tests run
// against in-memory fakes, so only logging and a tracer are needed here.
const tName = "github.com/mansapatel111/artbeyondsight/tests/workflow"

var (
	tracer = otel.Tracer(tName)
	logger = otelslog.NewLogger(tName)
)

func TestMain(m *testing.M) {
	telemetry.SetupLogging()

	_, span := tracer.Start(context.Background(), "workflow-suite")
	code := m.Run()
	span.End()
	logger.Info("workflow test suite complete")

	os.Exit(code)
}
