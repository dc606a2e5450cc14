// Copyright 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This binary provides a refget server that backs onto sequences stored in a
// web hosted bucket, GCS, S3 or a local directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/googlegenomics/refget/analytics"
	"github.com/googlegenomics/refget/api"
	"github.com/googlegenomics/refget/internal/config"
)

var (
	propertiesFile = flag.String("properties_file", "", "file of key=value properties")
	port           = flag.Int("port", 0, "HTTP service port, overriding the server.port property")

	metrics    = flag.Bool("metrics", false, "serve Prometheus metrics at /metrics")
	profileDir = flag.String("cpu_profile", "", "if set, write a CPU profile to this directory")

	// Enable or disable anonymous usage tracking.
	//
	// If enabled, anonymous information about requests handled by the server is
	// logged to Google via Google Analytics.
	//
	// This information helps Google determine how well the software is
	// performing and where improvements should be made.  No user identifying
	// information is ever sent to Google.
	trackUsage = flag.Bool("track_usage", false, "anonymous usage tracking")
)

func main() {
	flag.Parse()

	props, err := config.Load(*propertiesFile)
	if err != nil {
		log.Printf("Failed to load properties: %v", err)
		os.Exit(config.ExitCode(err))
	}
	if *port != 0 {
		props.Server.Port = *port
	}

	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir)).Stop()
	}

	ctx := context.Background()
	client, err := api.NewClient(ctx, props.Source.BaseURL)
	if err != nil {
		log.Printf("Failed to create storage client for %q: %v", props.Source.BaseURL, err)
		os.Exit(config.ExitFailure)
	}

	router := gin.Default()
	if *trackUsage {
		log.Printf("Enabling anonymous usage tracking")

		tracker := analytics.NewClient("UA-103022118-1", uuid.New().String())
		router.Use(analytics.Middleware(func(hits []analytics.Hit) {
			if err := tracker.Send(ctx, hits); err != nil {
				log.Printf("Failed to send %d hits to analytics: %v", len(hits), err)
			}
		}))
	}
	if *metrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	api.NewServer(client, props).Register(router)

	log.Printf("Serving sequences from %s on port %d", props.Source.BaseURL, props.Server.Port)
	if err := router.Run(fmt.Sprintf(":%d", props.Server.Port)); err != nil {
		log.Printf("HTTP server returned an error: %v", err)
		os.Exit(config.ExitFailure)
	}
}
