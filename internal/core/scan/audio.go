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

package scan

import "sync"

// AudioSink is the playback surface the audio session drives. The server
// itself does not render audio; the sink forwards start/stop commands to
// whatever is playing on the client side.
type AudioSink interface {
	Start(url string) error
	Stop(url string)
}

// NopSink discards playback commands. Used when no client is attached.
type NopSink struct{}

func (NopSink) Start(string) error { return nil }
func (NopSink) Stop(string)        {}

// AudioSession owns the single "currently playing" handle shared by music
// and narration playback across the whole pipeline. Starting a new track
// stops the previous one first, so at most one plays at a time.
type AudioSession struct {
	mu      sync.Mutex
	sink    AudioSink
	current string
}

// NewAudioSession creates an audio session over the given sink. A nil sink
// falls back to NopSink.
func NewAudioSession(sink AudioSink) *AudioSession {
	if sink == nil {
		sink = NopSink{}
	}
	return &AudioSession{sink: sink}
}

// Play stops whatever is currently playing and starts the given track.
// Playing the track that is already current is a no-op, which is what makes
// the assembler's autoplay exactly-once.
func (a *AudioSession) Play(url string) error {
	if len(url) == 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == url {
		return nil
	}
	if len(a.current) > 0 {
		a.sink.Stop(a.current)
	}
	if err := a.sink.Start(url); err != nil {
		a.current = ""
		return err
	}
	a.current = url
	return nil
}

// StopAll stops the current track, if any.
func (a *AudioSession) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.current) > 0 {
		a.sink.Stop(a.current)
		a.current = ""
	}
}

// Current returns the URL of the currently playing track, or "".
func (a *AudioSession) Current() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}
