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

const musicRequestTimeout = 90 * time.Second

// MusicClient calls the hosted music generation API. Track generation is an
// optional enrichment of the analysis result; every caller treats a failure
// as "no soundtrack" and moves on.
type MusicClient struct {
	config *Music
	client *http.Client
}

func NewMusicClient(config *Music) *MusicClient {
	return &MusicClient{
		config: config,
		client: &http.Client{Timeout: musicRequestTimeout},
	}
}

type musicRequest struct {
	Prompt       string `json:"prompt"`
	Style        string `json:"style,omitempty"`
	NegativeTags string `json:"negative_tags,omitempty"`
	Instrumental bool   `json:"instrumental"`
}

type musicResponse struct {
	AudioURL string `json:"audio_url"`
	Error    string `json:"error,omitempty"`
}

// Generate produces an ambient track for the prompt and returns its URL.
// Style, negative tags, and the instrumental flag come from configuration.
func (m *MusicClient) Generate(ctx context.Context, prompt string) (string, error) {
	if m.config.APIKey == "" {
		return "", fmt.Errorf("music generation is not configured")
	}

	body, err := json.Marshal(&musicRequest{
		Prompt:       prompt,
		Style:        m.config.Style,
		NegativeTags: m.config.NegativeTags,
		Instrumental: m.config.Instrumental,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.Endpoint+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.config.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("music generation failed with status %d: %s", resp.StatusCode, string(payload))
	}

	out := &musicResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("music generation failed: %s", out.Error)
	}
	return out.AudioURL, nil
}
