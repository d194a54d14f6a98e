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
// command that stages a captured camera frame in Cloud Storage so the vision
// model can reference it by URL.
//
// The frame arrives as raw bytes on the detection. The command sniffs the
// image type, writes the bytes to the frame bucket under a generated object
// name, and emits a time-limited signed URL for the uploaded object.
package commands

import (
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/mansapatel111/artbeyondsight/internal/core/cor"
	"github.com/mansapatel111/artbeyondsight/internal/core/model"
)

// SignedURLExpiry bounds how long an uploaded frame stays fetchable. Frames
// only need to outlive a single analysis.
const SignedURLExpiry = 15 * time.Minute

// FrameUpload writes a detection's frame bytes to GCS and outputs a signed
// URL referencing the object.
type FrameUpload struct {
	cor.BaseCommand
	storageClient *storage.Client
	bucket        string
}

func NewFrameUpload(name string, storageClient *storage.Client, bucket string) *FrameUpload {
	return &FrameUpload{
		BaseCommand:   *cor.NewBaseCommand(name),
		storageClient: storageClient,
		bucket:        bucket,
	}
}

func (t *FrameUpload) IsExecutable(context cor.Context) bool {
	if context == nil || context.Get(t.GetInputParam()) == nil {
		return false
	}
	detection, ok := context.Get(t.GetInputParam()).(*model.Detection)
	return ok && len(detection.Frame) > 0
}

func (t *FrameUpload) Execute(context cor.Context) {
	detection := context.Get(t.GetInputParam()).(*model.Detection)
	ctx := context.GetContext()

	kind, _ := filetype.Match(detection.Frame)
	extension := "jpg"
	contentType := "image/jpeg"
	if kind != filetype.Unknown {
		extension = kind.Extension
		contentType = kind.MIME.Value
	}

	objectName := fmt.Sprintf("frames/%s.%s", uuid.NewString(), extension)
	writer := t.storageClient.Bucket(t.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := writer.Write(detection.Frame); err != nil {
		_ = writer.Close()
		t.GetErrorCounter().Add(ctx, 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to write frame to bucket %s: %w", t.bucket, err))
		return
	}
	if err := writer.Close(); err != nil {
		t.GetErrorCounter().Add(ctx, 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to finalize frame upload: %w", err))
		return
	}

	signedURL, err := t.storageClient.Bucket(t.bucket).SignedURL(objectName, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(SignedURLExpiry),
	})
	if err != nil {
		t.GetErrorCounter().Add(ctx, 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to sign frame URL: %w", err))
		return
	}

	t.GetSuccessCounter().Add(ctx, 1)
	context.Add(CtxFrameGcsUri, fmt.Sprintf("gs://%s/%s", t.bucket, objectName))
	context.Add(CtxFrameMimeType, contentType)
	context.Add(t.GetOutputParam(), signedURL)
}
