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

// Package workflow defines the high-level business logic orchestrations.
// This file implements the generative analysis provider, which packages the
// two model-backed analysis paths as Chain of Responsibility pipelines.
//
// The name pipeline sends a text-only prompt and parses the JSON response.
// The vision pipeline first stages the captured frame in Cloud Storage, then
// sends a multi-modal prompt referencing the staged image, then parses. Both
// pipelines end at the same JSON-to-struct command, so the orchestrator only
// ever sees typed ArtifactAnalysis values.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/mansapatel111/artbeyondsight/internal/cloud"
	"github.com/mansapatel111/artbeyondsight/internal/core/commands"
	"github.com/mansapatel111/artbeyondsight/internal/core/cor"
	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// GenAIAnalysisProvider runs the name and vision analysis pipelines against
// the configured generative model.
type GenAIAnalysisProvider struct {
	nameChain   cor.Chain
	visionChain cor.Chain
}

// NewGenAIAnalysisProvider builds both pipelines from the application config.
// It panics on an unparsable prompt template: the application cannot run
// without valid prompts, and the failure belongs at startup.
func NewGenAIAnalysisProvider(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	agentModelName string) *GenAIAnalysisProvider {

	nameTemplate, err := template.New("name-template").Parse(config.PromptTemplates.NamePrompt)
	if err != nil {
		panic(err)
	}
	visionTemplate, err := template.New("vision-template").Parse(config.PromptTemplates.VisionPrompt)
	if err != nil {
		panic(err)
	}

	genaiModel := serviceClients.AgentModels[agentModelName]

	nameChain := cor.NewBaseChain("name-analysis-pipeline")
	nameChain.AddCommand(commands.NewNameAnalysisCreator("generate-name-analysis", genaiModel, nameTemplate))
	nameChain.AddCommand(commands.NewAnalysisJsonToStruct("convert-name-analysis"))

	visionChain := cor.NewBaseChain("vision-analysis-pipeline")
	visionChain.AddCommand(commands.NewFrameUpload("stage-camera-frame", serviceClients.StorageClient, config.Storage.FrameBucket))
	visionChain.AddCommand(commands.NewVisionAnalysisCreator("generate-vision-analysis", genaiModel, visionTemplate))
	visionChain.AddCommand(commands.NewAnalysisJsonToStruct("convert-vision-analysis"))

	return &GenAIAnalysisProvider{
		nameChain:   nameChain,
		visionChain: visionChain,
	}
}

// AnalyzeByName asks the model about a subject by name alone.
func (p *GenAIAnalysisProvider) AnalyzeByName(ctx context.Context, subjectName string, category model.Category) (*model.ArtifactAnalysis, error) {
	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, subjectName)
	chainCtx.Add(commands.CtxDetectionCategory, category)

	p.nameChain.Execute(chainCtx)
	return analysisFromChain(chainCtx)
}

// AnalyzeImage stages the detection's frame and asks the model to identify
// and describe what the image shows. It returns the analysis along with the
// gs:// URI of the staged frame.
func (p *GenAIAnalysisProvider) AnalyzeImage(ctx context.Context, detection *model.Detection) (*model.ArtifactAnalysis, string, error) {
	if len(detection.Frame) == 0 {
		return nil, "", errors.New("detection carries no frame to analyze")
	}

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, detection)
	chainCtx.Add(commands.CtxDetectionCategory, detection.Category)
	chainCtx.Add(commands.CtxDetectionHint, detection.Description)

	p.visionChain.Execute(chainCtx)

	imageURL, _ := chainCtx.Get(commands.CtxFrameGcsUri).(string)
	analysis, err := analysisFromChain(chainCtx)
	if err != nil {
		return nil, "", err
	}
	return analysis, imageURL, nil
}

// analysisFromChain pulls the typed result out of a finished chain context,
// folding any chain errors into a single error value.
func analysisFromChain(chainCtx cor.Context) (*model.ArtifactAnalysis, error) {
	if chainCtx.HasErrors() {
		errs := make([]error, 0, len(chainCtx.GetErrors()))
		for name, err := range chainCtx.GetErrors() {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return nil, fmt.Errorf("analysis pipeline failed: %w", errors.Join(errs...))
	}
	analysis, ok := chainCtx.Get(cor.CtxOut).(*model.ArtifactAnalysis)
	if !ok {
		return nil, errors.New("analysis pipeline produced no result")
	}
	return analysis, nil
}
