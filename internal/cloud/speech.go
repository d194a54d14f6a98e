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

// Package cloud provides components for interacting with external services.
// This file implements the client for the hosted text-to-speech API used for
// spoken announcements ("Analyzing The Starry Night") and full narration
// audio. Narration is best-effort everywhere it is used: a failed synthesis
// degrades the experience but never blocks an analysis.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const speechRequestTimeout = 30 * time.Second

// SpeechClient calls the hosted TTS API over HTTP.
type SpeechClient struct {
	config *Narration
	client *http.Client
}

func NewSpeechClient(config *Narration) *SpeechClient {
	return &SpeechClient{
		config: config,
		client: &http.Client{Timeout: speechRequestTimeout},
	}
}

type speechRequest struct {
	Text    string `json:"text"`
	VoiceId string `json:"voice_id,omitempty"`
}

type speechResponse struct {
	AudioURL string `json:"audio_url"`
	Error    string `json:"error,omitempty"`
}

// Synthesize converts text to speech and returns the URL of the generated
// audio clip.
func (s *SpeechClient) Synthesize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(&speechRequest{Text: text, VoiceId: s.config.VoiceId})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint+"/v1/synthesize", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("speech synthesis failed with status %d: %s", resp.StatusCode, string(payload))
	}

	out := &speechResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("speech synthesis failed: %s", out.Error)
	}
	return out.AudioURL, nil
}

// Announce speaks a short status line. The returned URL is ignored by
// callers that only want the spoken acknowledgement.
func (s *SpeechClient) Announce(ctx context.Context, text string) error {
	_, err := s.Synthesize(ctx, text)
	return err
}
