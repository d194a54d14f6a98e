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

// Package main contains the logic for setting up and starting the Pub/Sub
// message listeners. Remote capture devices publish their detections to the
// detection topic; the listener feeds each event through the ingest pipeline
// into whichever scanning session is active.
package main

import (
	"context"

	"github.com/mansapatel111/artbeyondsight/internal/cloud"
	"github.com/mansapatel111/artbeyondsight/internal/core/cor"
	"github.com/mansapatel111/artbeyondsight/internal/core/workflow"
)

// sessionRoutingCommand wraps the ingest pipeline so that each message is
// processed against the currently active session. Sessions come and go with
// scanner start/stop requests, so the pipeline cannot be bound to one at
// listener setup time. Messages arriving with no active session are dropped
// and acknowledged.
type sessionRoutingCommand struct {
	cor.BaseCommand
}

func (c *sessionRoutingCommand) Execute(context cor.Context) {
	session := state.activeScanner()
	if session == nil {
		return
	}
	pipeline := workflow.NewDetectionIngestWorkflow(session)
	pipeline.Execute(context)
}

// SetupListeners configures and starts the background Pub/Sub listeners.
func SetupListeners(cloudClients *cloud.ServiceClients, ctx context.Context) {
	if listener, ok := cloudClients.PubSubListeners["DetectionTopic"]; ok {
		router := &sessionRoutingCommand{BaseCommand: *cor.NewBaseCommand("detection-session-router")}
		listener.SetCommand(router)
		listener.Listen(ctx)
	}
}
