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
	"text/template"

	"github.com/zeebo/assert"

	"github.com/mansapatel111/artbeyondsight/internal/core/commands"
)

func visionPromptTemplate(t *testing.T) *template.Template {
	tmpl, err := template.New("vision").Parse("Category: {{.CATEGORY}}. Hint: {{.HINT}}. Example: {{.EXAMPLE_JSON}}")
	assert.NoError(t, err)
	return tmpl
}

// The detector's free-text description must reach the prompt parameters.
// Only the chain output is piped between commands, so by the time the
// vision step runs the detection itself is gone and the hint has to come
// from its dedicated context key.
func TestVisionPromptParamsCarryDetectionHint(t *testing.T) {
	cmd := commands.NewVisionAnalysisCreator("vision-analysis", nil, visionPromptTemplate(t))

	chainCtx := newChainContext()
	chainCtx.Add(commands.CtxDetectionHint, "bronze equestrian statue on a granite plinth")

	params := cmd.GenerateParams(chainCtx)
	assert.Equal(t, "bronze equestrian statue on a granite plinth", params["HINT"])
}

func TestVisionPromptParamsDefaultHintEmpty(t *testing.T) {
	cmd := commands.NewVisionAnalysisCreator("vision-analysis", nil, visionPromptTemplate(t))

	params := cmd.GenerateParams(newChainContext())
	assert.Equal(t, "", params["HINT"])
}

func TestVisionAnalysisRequiresStagedFrame(t *testing.T) {
	cmd := commands.NewVisionAnalysisCreator("vision-analysis", nil, visionPromptTemplate(t))

	assert.False(t, cmd.IsExecutable(newChainContext()))

	chainCtx := newChainContext()
	chainCtx.Add(commands.CtxFrameGcsUri, "gs://frames/scan-123.jpg")
	assert.True(t, cmd.IsExecutable(chainCtx))
}
