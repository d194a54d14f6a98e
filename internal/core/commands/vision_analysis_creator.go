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
// command that analyzes a subject from its camera frame.
//
// This is the fallback path when a name-based query could not identify the
// subject. The frame has already been staged in Cloud Storage by FrameUpload;
// this command sends the staged image and a prompt to the model in a single
// multi-modal request.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/mansapatel111/artbeyondsight/internal/cloud"
	"github.com/mansapatel111/artbeyondsight/internal/core/cor"
	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// Context parameters shared between FrameUpload and this command.
const (
	CtxFrameGcsUri   = "FRAME_GCS_URI"
	CtxFrameMimeType = "FRAME_MIME_TYPE"
)

// CtxDetectionHint carries the detector's free-text description into the
// vision prompt. The chain pipes CtxIn between commands, so the hint needs
// its own key to survive past the frame upload step.
const CtxDetectionHint = "DETECTION_HINT"

// VisionAnalysisCreator is a command that uses a generative model to produce
// a full artifact analysis from a staged camera frame.
type VisionAnalysisCreator struct {
	cor.BaseCommand
	generativeAIModel        *cloud.QuotaAwareGenerativeAIModel
	template                 *template.Template
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
	geminiRetryCounter       metric.Int64Counter
}

func NewVisionAnalysisCreator(
	name string,
	generativeAIModel *cloud.QuotaAwareGenerativeAIModel,
	template *template.Template) *VisionAnalysisCreator {

	out := &VisionAnalysisCreator{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
		template:          template}

	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	out.geminiRetryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.retry", out.GetName()))

	return out
}

func (t *VisionAnalysisCreator) GenerateParams(context cor.Context) map[string]interface{} {
	params := make(map[string]interface{})

	if category, ok := context.Get(CtxDetectionCategory).(model.Category); ok {
		params["CATEGORY"] = string(category)
	}

	// The detector's free-text description rides along as a hint so the
	// model knows what it is supposed to be looking at.
	params["HINT"] = ""
	if hint, ok := context.Get(CtxDetectionHint).(string); ok {
		params["HINT"] = hint
	}

	exampleAnalysis, _ := json.Marshal(model.GetExampleAnalysis())
	params["EXAMPLE_JSON"] = string(exampleAnalysis)
	return params
}

// IsExecutable requires a staged frame URI. Without one there is nothing for
// the vision model to look at.
func (t *VisionAnalysisCreator) IsExecutable(context cor.Context) bool {
	if context == nil {
		return false
	}
	uri, ok := context.Get(CtxFrameGcsUri).(string)
	return ok && uri != ""
}

func (t *VisionAnalysisCreator) Execute(context cor.Context) {
	frameURI := context.Get(CtxFrameGcsUri).(string)
	mimeType, ok := context.Get(CtxFrameMimeType).(string)
	if !ok || mimeType == "" {
		mimeType = "image/jpeg"
	}

	var buffer bytes.Buffer
	err := t.template.Execute(&buffer, t.GenerateParams(context))
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{
			{Text: buffer.String()},
			{FileData: &genai.FileData{
				FileURI:  frameURI,
				MIMEType: mimeType,
			}},
		},
			Role: "user"},
	}

	out, err := cloud.GenerateMultiModalResponse(context.GetContext(), t.geminiInputTokenCounter, t.geminiOutputTokenCounter, t.geminiRetryCounter, 0, t.generativeAIModel, contents)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("gemini request failed: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), out)
}
