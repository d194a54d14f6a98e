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
// command that parses the generative model's response into a typed
// ArtifactAnalysis.
//
// Even with a JSON response format requested, models sometimes wrap the
// payload in prose or markdown fences. The command locates the first
// well-formed JSON object in the response and unmarshals that, rather than
// assuming the whole response is valid JSON.
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mansapatel111/artbeyondsight/internal/core/cor"
	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// AnalysisJsonToStruct converts the model's text response into a
// *model.ArtifactAnalysis.
type AnalysisJsonToStruct struct {
	cor.BaseCommand
}

func NewAnalysisJsonToStruct(name string) *AnalysisJsonToStruct {
	return &AnalysisJsonToStruct{BaseCommand: *cor.NewBaseCommand(name)}
}

func (t *AnalysisJsonToStruct) IsExecutable(context cor.Context) bool {
	if context == nil {
		return false
	}
	raw, ok := context.Get(t.GetInputParam()).(string)
	return ok && raw != ""
}

func (t *AnalysisJsonToStruct) Execute(context cor.Context) {
	raw := context.Get(t.GetInputParam()).(string)

	payload, err := ExtractJSONObject(raw)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), err)
		return
	}

	analysis := &model.ArtifactAnalysis{}
	if err := json.Unmarshal([]byte(payload), analysis); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to unmarshal analysis response: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), analysis)
}

// ExtractJSONObject returns the first balanced JSON object found in the
// input. Brace counting skips over string literals so braces inside field
// values do not confuse the scan.
func ExtractJSONObject(in string) (string, error) {
	start := strings.IndexByte(in, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(in); i++ {
		c := in[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := in[start : i+1]
				if !json.Valid([]byte(candidate)) {
					return "", fmt.Errorf("response contained malformed JSON")
				}
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("response contained an unterminated JSON object")
}
