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
// *****************************************************************************************************//
// Package main is the entry point for the art scanner backend server.
//
// This application sets up and runs a web server using the Gin framework. It
// provides a REST API for controlling the scanning session, ingesting
// detection events, browsing the artifact store, and uploading images for
// analysis. The server is instrumented with OpenTelemetry for logging,
// tracing, and metrics.
//
// The main function initializes the application's configuration, sets up
// logging and telemetry, and initializes the application state, including
// clients for Google Cloud services. Background Pub/Sub listeners feed
// detection events from remote capture devices into the active session.
package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mansapatel111/artbeyondsight/internal/core/model"
	"github.com/mansapatel111/artbeyondsight/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	otelShutdown, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.Error("failed to shut down telemetry", "error", err)
		}
	}()
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()
	r.Use(otelgin.Middleware("art-scanner-server"))
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		ScannerRouter(apiV1, ctx)
		ArtifactRouter(apiV1)
		FileUpload(apiV1)
	}

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      r,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	// Give active requests 5 seconds to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	state.stopScanner()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}

// ScannerRouter sets up the API routes that control the scanning session and
// expose its results.
//
// This function defines the following endpoints:
//   - POST /scanner/start: Begins a scanning session.
//   - POST /scanner/stop: Ends the session; pending holds are discarded.
//   - GET  /scanner/status: Returns the session's current user-facing stage.
//   - POST /scanner/detections: Ingests one detection event, for devices
//     that talk HTTP instead of Pub/Sub.
//   - POST /scanner/guidance: Ingests an in-frame/out-of-frame signal.
//   - GET  /scanner/results/latest: Returns the most recent analysis result.
//   - GET  /scanner/detections/recent: Returns the recent sighting feed.
func ScannerRouter(r *gin.RouterGroup, appCtx context.Context) {
	scanner := r.Group("/scanner")
	{
		scanner.POST("/start", func(c *gin.Context) {
			if !state.startScanner(appCtx) {
				c.JSON(http.StatusConflict, gin.H{"error": "scanner already running"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "started"})
		})

		scanner.POST("/stop", func(c *gin.Context) {
			if !state.stopScanner() {
				c.JSON(http.StatusConflict, gin.H{"error": "scanner not running"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "stopped"})
		})

		scanner.GET("/status", func(c *gin.Context) {
			session := state.activeScanner()
			if session == nil {
				c.JSON(http.StatusOK, gin.H{"running": false})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"running":        true,
				"status":         state.currentStatus(),
				"holding":        session.Holding(),
				"locked_subject": session.LockedSubject(),
			})
		})

		scanner.POST("/detections", func(c *gin.Context) {
			session := state.activeScanner()
			if session == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "scanner not running"})
				return
			}
			detection := &model.Detection{}
			if err := c.ShouldBindJSON(detection); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if detection.Timestamp.IsZero() {
				detection.Timestamp = time.Now()
			}
			// The session decides whether the detection survives
			// normalization and the hold gate; acceptance here only means
			// the event was well formed.
			session.HandleDetection(detection)
			c.Status(http.StatusAccepted)
		})

		scanner.POST("/guidance", func(c *gin.Context) {
			session := state.activeScanner()
			if session == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "scanner not running"})
				return
			}
			event := model.GuidanceEvent{}
			if err := c.ShouldBindJSON(&event); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			session.HandleGuidance(event)
			c.Status(http.StatusAccepted)
		})

		scanner.GET("/results/latest", func(c *gin.Context) {
			session := state.activeScanner()
			if session == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "scanner not running"})
				return
			}
			latest := session.Latest()
			if latest == nil {
				c.Status(http.StatusNoContent)
				return
			}
			c.JSON(http.StatusOK, latest)
		})

		scanner.GET("/detections/recent", func(c *gin.Context) {
			session := state.activeScanner()
			if session == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "scanner not running"})
				return
			}
			c.JSON(http.StatusOK, session.Recent())
		})
	}
}

// ArtifactRouter sets up the API routes for browsing and maintaining the
// artifact store.
//
// This function defines the following endpoints:
//   - GET  /artifacts?s=<query>: Searches stored analyses by name.
//   - GET  /artifacts?category=<c>&count=<n>: Lists analyses by category.
//   - GET  /artifacts/:id: Retrieves one stored analysis by id.
//   - POST /artifacts: Saves an analysis record.
func ArtifactRouter(r *gin.RouterGroup) {
	artifacts := r.Group("/artifacts")
	{
		artifacts.GET("", func(c *gin.Context) {
			query := c.Query("s")
			if len(query) > 0 {
				// Search failure degrades to an empty list so client
				// browsing never hard-fails on a store hiccup.
				results, err := state.artifactService.SearchByName(c, query)
				if err != nil {
					log.Printf("Error searching artifacts: %v\n", err)
					c.JSON(http.StatusOK, []*model.CachedAnalysis{})
					return
				}
				c.JSON(http.StatusOK, results)
				return
			}

			category := model.Category(c.Query("category"))
			if !category.Valid() {
				c.Status(http.StatusBadRequest)
				return
			}
			count, err := strconv.Atoi(c.DefaultQuery("count", "50"))
			if err != nil {
				count = 50
			}
			results, err := state.artifactService.List(c, category, count)
			if err != nil {
				log.Printf("Error listing artifacts: %v\n", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, results)
		})

		artifacts.GET("/:id", func(c *gin.Context) {
			id := c.Param("id")
			out, err := state.artifactService.Get(c, id)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		artifacts.POST("", func(c *gin.Context) {
			record := &model.CachedAnalysis{}
			if err := c.ShouldBindJSON(record); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if record.Name == "" || !record.Category.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name and a valid category are required"})
				return
			}
			if record.Id == "" {
				fresh := model.NewCachedAnalysis(record.Name, record.Category)
				record.Id = fresh.Id
				record.CreateDate = fresh.CreateDate
			}
			if err := state.artifactService.Save(c, record); err != nil {
				log.Printf("Error saving artifact: %v\n", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusCreated, record)
		})
	}
}

// sniffUpload reads just enough of src to determine its file type, then
// returns the type along with a reader that replays the complete stream.
// Reading byte by byte is legal for a multipart part, so the header is
// filled with ReadFull rather than a single Read.
func sniffUpload(src io.Reader) (types.Type, io.Reader, error) {
	head := make([]byte, 261)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return filetype.Unknown, nil, err
	}
	head = head[:n]
	kind, _ := filetype.Match(head)
	return kind, io.MultiReader(bytes.NewReader(head), src), nil
}

// FileUpload sets up the route for handling image uploads. Uploaded images
// land in the upload bucket and the response carries a signed URL the
// analysis endpoints can reference.
func FileUpload(r *gin.RouterGroup) {
	upload := r.Group("/uploads")
	{
		upload.POST("", func(c *gin.Context) {
			form, err := c.MultipartForm()
			if err != nil {
				c.String(http.StatusBadRequest, "get form err: %s", err.Error())
				return
			}
			files := form.File["files"]
			bucketName := state.config.Storage.UploadBucket
			bucket := state.cloud.StorageClient.Bucket(bucketName)

			uploaded := make([]gin.H, 0, len(files))
			for _, file := range files {
				src, err := file.Open()
				if err != nil {
					c.String(http.StatusBadRequest, "upload file err: %s", err.Error())
					return
				}

				kind, stream, err := sniffUpload(src)
				if err != nil {
					_ = src.Close()
					c.Status(http.StatusInternalServerError)
					return
				}
				if kind == filetype.Unknown || kind.MIME.Type != "image" {
					_ = src.Close()
					c.String(http.StatusBadRequest, "unsupported file type for %s", file.Filename)
					return
				}

				objectName := "uploads/" + uuid.NewString() + "." + kind.Extension
				wc := bucket.Object(objectName).NewWriter(c)
				wc.ContentType = kind.MIME.Value
				if _, err = io.Copy(wc, stream); err != nil {
					_ = src.Close()
					c.String(http.StatusInternalServerError, "write file to bucket err: %s", err.Error())
					return
				}
				_ = src.Close()
				if err := wc.Close(); err != nil {
					log.Printf("failed to close bucket handle: %v\n", err)
					c.Status(http.StatusInternalServerError)
					return
				}

				signedURL, err := state.artifactService.GenerateSignedURL(c, bucketName, objectName, 15*time.Minute)
				if err != nil {
					log.Printf("failed to sign upload URL: %v\n", err)
					c.Status(http.StatusInternalServerError)
					return
				}
				uploaded = append(uploaded, gin.H{"name": file.Filename, "url": signedURL})
			}
			c.JSON(http.StatusOK, gin.H{"files": uploaded})
		})
	}
}
