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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that asks the generative model about a subject by name.
//
// Logic Flow:
// The name query is the preferred analysis path because it is cheap and
// precise: when the detector has already identified "The Starry Night", the
// model can draw on everything it knows about the work without needing to
// see the frame at all.
//
//  1. It receives a subject name from the context.
//  2. It builds the prompt from a Go template, injecting the name, the
//     detection category, and a well-formed JSON example of the desired
//     output (few-shot prompting).
//  3. It sends the prompt to the generative model.
//  4. It places the raw JSON string response into the context for the
//     AnalysisJsonToStruct command to parse.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"go.opentelemetry.io/otel/metric"

	"github.com/mansapatel111/artbeyondsight/internal/cloud"
	"github.com/mansapatel111/artbeyondsight/internal/core/cor"
	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// CtxDetectionCategory is the context parameter carrying the detection's
// category into the prompt templates.
const CtxDetectionCategory = "DETECTION_CATEGORY"

// NameAnalysisCreator is a command that uses a generative model to produce a
// full artifact analysis from the subject's name alone.
type NameAnalysisCreator struct {
	cor.BaseCommand
	generativeAIModel        *cloud.QuotaAwareGenerativeAIModel
	template                 *template.Template
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
	geminiRetryCounter       metric.Int64Counter
}

func NewNameAnalysisCreator(
	name string,
	generativeAIModel *cloud.QuotaAwareGenerativeAIModel,
	template *template.Template) *NameAnalysisCreator {

	out := &NameAnalysisCreator{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
		template:          template}

	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	out.geminiRetryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.retry", out.GetName()))

	return out
}

// GenerateParams creates the map of dynamic data injected into the prompt
// template.
func (t *NameAnalysisCreator) GenerateParams(context cor.Context) map[string]interface{} {
	params := make(map[string]interface{})
	params["SUBJECT_NAME"] = context.Get(t.GetInputParam())

	if category, ok := context.Get(CtxDetectionCategory).(model.Category); ok {
		params["CATEGORY"] = string(category)
	}

	// Few-shot prompting: a complete example of the desired JSON output
	// makes the model's responses far more reliably structured.
	exampleAnalysis, _ := json.Marshal(model.GetExampleAnalysis())
	params["EXAMPLE_JSON"] = string(exampleAnalysis)
	return params
}

func (t *NameAnalysisCreator) IsExecutable(context cor.Context) bool {
	if context == nil {
		return false
	}
	subject, ok := context.Get(t.GetInputParam()).(string)
	return ok && subject != ""
}

func (t *NameAnalysisCreator) Execute(context cor.Context) {
	var buffer bytes.Buffer
	err := t.template.Execute(&buffer, t.GenerateParams(context))
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}

	contents := cloud.NewTextPart(buffer.String())

	out, err := cloud.GenerateMultiModalResponse(context.GetContext(), t.geminiInputTokenCounter, t.geminiOutputTokenCounter, t.geminiRetryCounter, 0, t.generativeAIModel, contents)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("gemini request failed: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), out)
}
