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

// Package main contains the setup and initialization logic for the
// application's state. This file creates and manages a centralized state
// manager holding all shared dependencies: configuration, Google Cloud
// service clients, the artifact store, and the scanning pipeline.
//
// Functions:
//   - SetupOS: Points the configuration loader at the right TOML files.
//   - GetConfig: Singleton loader for the application configuration.
//   - InitState: Creates all service clients, the analysis orchestrator, and
//     the Pub/Sub listeners.
package main

import (
	"context"
	"log"
	"os"
	"sync"
	"text/template"
	"time"

	"github.com/mansapatel111/artbeyondsight/internal/cloud"
	"github.com/mansapatel111/artbeyondsight/internal/core/scan"
	"github.com/mansapatel111/artbeyondsight/internal/core/services"
	"github.com/mansapatel111/artbeyondsight/internal/core/workflow"
)

// AgentModelName is the logical name of the configured model used for both
// analysis paths.
const AgentModelName = "curator-flash"

// StateManager holds all the shared dependencies for the application, acting
// as a centralized container for service clients and configuration. This
// avoids global variables and keeps dependency management in one place.
type StateManager struct {
	config          *cloud.Config
	cloud           *cloud.ServiceClients
	artifactService *services.ArtifactService
	orchestrator    *workflow.AnalysisOrchestrator
	audio           *scan.AudioSession

	// Scanner session lifecycle. A session exists only between a start and
	// a stop request; status mirrors the session's last reported stage.
	scannerMu sync.Mutex
	scanner   *scan.Session
	status    scan.Status
}

var state = &StateManager{}

// SetupOS sets the environment variables the configuration loader uses to
// find the TOML files.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "local")
	return err
}

// GetConfig provides a singleton instance of the application configuration,
// loading it from the file system on first use.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState initializes the entire application state: cloud clients, the
// artifact store, the cache resolver, the analysis orchestrator, and the
// detection listeners.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	state.artifactService = &services.ArtifactService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		IAMClient:      cloudClients.IAMClient,
		SignerEmail:    config.Application.SignerServiceAccountEmail,
		DatasetName:    config.BigQueryDataSource.DatasetName,
		ArtifactTable:  config.BigQueryDataSource.ArtifactTable,
	}

	resolver := services.NewCacheResolver(state.artifactService)
	provider := workflow.NewGenAIAnalysisProvider(config, cloudClients, AgentModelName)

	// TODO: swap NopSink for the device audio bridge once the companion app
	// exposes its playback endpoint.
	state.audio = scan.NewAudioSession(scan.NopSink{})
	assembler := workflow.NewResultAssembler(state.audio)

	orchestratorOpts := []workflow.OrchestratorOption{
		workflow.WithSaver(state.artifactService),
		workflow.WithComposer(cloudClients.Composer),
	}
	if config.PromptTemplates.MusicPrompt != "" {
		musicTemplate, err := template.New("music-template").Parse(config.PromptTemplates.MusicPrompt)
		if err != nil {
			panic(err)
		}
		orchestratorOpts = append(orchestratorOpts, workflow.WithMusicTemplate(musicTemplate))
	}
	if config.Scanner.AnalysisTimeoutSeconds > 0 {
		orchestratorOpts = append(orchestratorOpts,
			workflow.WithAnalysisTimeout(time.Duration(config.Scanner.AnalysisTimeoutSeconds)*time.Second))
	}
	state.orchestrator = workflow.NewAnalysisOrchestrator(
		provider, resolver, cloudClients.Narrator, assembler, orchestratorOpts...)

	state.status = scan.Status{Stage: scan.StageIdle}

	SetupListeners(cloudClients, ctx)
}

// startScanner creates and installs a new scanning session. Returns false
// when one is already running.
func (s *StateManager) startScanner(ctx context.Context) bool {
	s.scannerMu.Lock()
	defer s.scannerMu.Unlock()
	if s.scanner != nil && !s.scanner.Stopped() {
		return false
	}

	window := scan.DefaultDedupWindow
	if s.config.Scanner.DedupWindowSeconds > 0 {
		window = time.Duration(s.config.Scanner.DedupWindowSeconds) * time.Second
	}
	opts := []scan.SessionOption{
		scan.WithStatusFunc(func(st scan.Status) {
			s.scannerMu.Lock()
			s.status = st
			s.scannerMu.Unlock()
		}),
	}
	if s.config.Scanner.HoldDelaySeconds > 0 {
		opts = append(opts, scan.WithHoldDelay(time.Duration(s.config.Scanner.HoldDelaySeconds)*time.Second))
	}

	s.scanner = scan.NewSession(ctx, scan.NewNormalizer(window, s.config.Scanner.MinConfidence), s.orchestrator, opts...)
	s.status = scan.Status{Stage: scan.StageIdle}
	return true
}

// stopScanner tears down the active session, if any.
func (s *StateManager) stopScanner() bool {
	s.scannerMu.Lock()
	session := s.scanner
	s.scanner = nil
	s.scannerMu.Unlock()

	if session == nil || session.Stopped() {
		return false
	}
	session.Stop()
	s.audio.StopAll()
	return true
}

// activeScanner returns the running session, or nil.
func (s *StateManager) activeScanner() *scan.Session {
	s.scannerMu.Lock()
	defer s.scannerMu.Unlock()
	if s.scanner == nil || s.scanner.Stopped() {
		return nil
	}
	return s.scanner
}

// currentStatus returns the last reported session status.
func (s *StateManager) currentStatus() scan.Status {
	s.scannerMu.Lock()
	defer s.scannerMu.Unlock()
	return s.status
}
