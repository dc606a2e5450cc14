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

// Package refget serves the refget API on App Engine.  Properties are read
// from the environment.
package refget

import (
	"context"
	"log"
	"net/http"

	"github.com/googlegenomics/refget/api"
	"github.com/googlegenomics/refget/internal/config"
	"google.golang.org/appengine"
)

func init() {
	props, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load properties: %v", err)
	}
	client, err := api.NewClient(context.Background(), props.Source.BaseURL)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}

	mux := http.NewServeMux()
	api.NewServer(client, props).Export(mux)
	http.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		mux.ServeHTTP(w, req.WithContext(appengine.NewContext(req)))
	})
}
