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

// Package test provides utility functions and mock data to support the
// application's test suite: a cached test configuration and sample detection
// payloads for exercising the ingest pipeline.
package test

import (
	"log"
	"os"
	"testing"

	"github.com/mansapatel111/artbeyondsight/internal/cloud"
)

// StateManager is a simple in-memory cache for the application configuration
// during test runs, so the TOML files are parsed once per run.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil. Convenience to cut
// boilerplate in the integration tests.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("Error reading config file: %v", err)
	}
}

// GetTestDetectionMessageText returns a JSON payload matching what a capture
// device publishes to the detection topic for a confidently recognized
// painting.
func GetTestDetectionMessageText() string {
	return `{
  "timestamp": "2025-08-30T14:12:08.672Z",
  "category": "museum",
  "confidence": 0.92,
  "description": "A painting of a swirling night sky over a small village with a prominent church spire",
  "title": "The Starry Night"
}`
}

// GetTestLowConfidenceMessageText returns a payload that should be rejected
// by the normalizer's confidence floor.
func GetTestLowConfidenceMessageText() string {
	return `{
  "timestamp": "2025-08-30T14:12:09.104Z",
  "category": "museum",
  "confidence": 0.12,
  "description": "A blurry frame that might contain a painting",
  "title": ""
}`
}

// SetupOS points the configuration loader at the test configuration files
// (configs/.env.toml plus the .env.test.toml override).
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}
