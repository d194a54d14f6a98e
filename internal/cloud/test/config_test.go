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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mansapatel111/artbeyondsight/internal/cloud"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
)

// Loads only the shipped base file; "base" names no runtime override.
func loadBaseConfig(t *testing.T) *cloud.Config {
	t.Setenv(cloud.EnvConfigFilePrefix, "../../../configs")
	t.Setenv(cloud.EnvConfigRuntime, "base")
	config := cloud.NewConfig()
	cloud.LoadConfig(&config)
	return config
}

// The shipped scanner settings must agree with the pipeline defaults so a
// deployment without overrides behaves the same as one with none set.
func TestBaseConfigScannerMatchesPipelineDefaults(t *testing.T) {
	config := loadBaseConfig(t)

	assert.Equal(t, float64(scan.DefaultDedupWindow.Seconds()), float64(config.Scanner.DedupWindowSeconds))
	assert.Equal(t, scan.DefaultMinConfidence, config.Scanner.MinConfidence)
	assert.Greater(t, config.Scanner.HoldDelaySeconds, 0)
}

func TestBaseConfigCarriesPromptTemplates(t *testing.T) {
	config := loadBaseConfig(t)

	assert.NotEmpty(t, config.PromptTemplates.NamePrompt)
	assert.NotEmpty(t, config.PromptTemplates.VisionPrompt)
	assert.NotEmpty(t, config.PromptTemplates.MusicPrompt)
	assert.Contains(t, config.PromptTemplates.VisionPrompt, "{{.HINT}}")
	assert.Contains(t, config.PromptTemplates.MusicPrompt, "{{.SUBJECT_NAME}}")
}
