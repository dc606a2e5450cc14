// Copyright 2017 Google Inc.
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

// Package api implements the refget reference sequence retrieval API.
//
// The version implemented by this package is v1.0.0 defined at:
// https://samtools.github.io/hts-specs/refget.html.
package api

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/googlegenomics/refget/analytics"
	"github.com/googlegenomics/refget/internal/config"
	"github.com/googlegenomics/refget/internal/refget"
)

const (
	sequencePath       = "/sequence/"
	serviceInfoSegment = "service-info"
	metadataSegment    = "metadata"
)

// Endpoint names used for metrics and analytics.
const (
	sequenceEndpoint    = "Sequence"
	metadataEndpoint    = "Metadata"
	serviceInfoEndpoint = "Service Info"
)

var (
	textMediaTypes = []string{refget.ContentTypeText, "text/plain"}
	jsonMediaTypes = []string{refget.ContentTypeJSON, "application/json"}
)

// Server provides a refget protocol server.  Must be created with NewServer.
type Server struct {
	client      Client
	properties  *config.Properties
	serviceInfo ServiceInfo

	sequenceStages []refget.Stage
	jsonStages     []refget.Stage
}

// NewServer returns a new Server that reads sequences and metadata using
// client at the locations described by properties.
func NewServer(client Client, properties *config.Properties) *Server {
	initMetrics()

	negotiator := refget.NewNegotiator(refget.DefaultMediaTypes())
	metadata := newMetadataLookup(client, properties.MetadataObject, properties.Metadata.CacheTTL)
	return &Server{
		client:         client,
		properties:     properties,
		serviceInfo:    DefaultServiceInfo(),
		sequenceStages: refget.SequenceStages(negotiator, metadata, textMediaTypes...),
		jsonStages:     []refget.Stage{negotiator.Stage(jsonMediaTypes...)},
	}
}

// Export registers the refget API endpoints with mux.
func (server *Server) Export(mux *http.ServeMux) {
	mux.Handle(sequencePath, forwardOrigin(func(w http.ResponseWriter, req *http.Request) {
		server.serve(w, req, req.URL.Path[len(sequencePath):])
	}))
}

// Register registers the refget API endpoints with a gin router.
func (server *Server) Register(router gin.IRoutes) {
	router.GET(sequencePath+"*path", func(c *gin.Context) {
		forwardOrigin(func(w http.ResponseWriter, req *http.Request) {
			server.serve(w, req, strings.TrimPrefix(c.Param("path"), "/"))
		}).ServeHTTP(c.Writer, c.Request)
	})
}

// serve dispatches the request for the given path, relative to /sequence/.
func (server *Server) serve(w http.ResponseWriter, req *http.Request, path string) {
	endpoint, id, ok := parsePath(path)
	if !ok {
		response := refget.NewResponse()
		response.SetError(http.StatusNotFound, "no such endpoint")
		writeResponse(w, response)
		return
	}

	request := newRequest(req, id)
	var response *refget.Response
	switch endpoint {
	case serviceInfoEndpoint:
		response = server.getServiceInfo(req.Context(), request)
	case metadataEndpoint:
		response = server.getMetadata(req.Context(), request)
	default:
		response = server.getSequence(req.Context(), request)
	}

	countResponse(endpoint, response.Status)
	track(req.Context(), endpoint, response)
	writeResponse(w, response)
}

// parsePath splits a path relative to /sequence/ into an endpoint and a
// sequence identifier.
func parsePath(path string) (string, string, bool) {
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1 && parts[0] == serviceInfoSegment:
		return serviceInfoEndpoint, "", true
	case len(parts) == 1 && parts[0] != "":
		return sequenceEndpoint, parts[0], true
	case len(parts) == 2 && parts[0] != "" && parts[1] == metadataSegment:
		return metadataEndpoint, parts[0], true
	}
	return "", "", false
}

// newRequest converts req into a refget.Request for the sequence id.  Only
// the first value of repeated headers and parameters is kept.
func newRequest(req *http.Request, id string) *refget.Request {
	request := refget.NewRequest()
	for key, values := range req.Header {
		request.Header[key] = values[0]
	}
	for key, values := range req.URL.Query() {
		request.Query[key] = values[0]
	}
	if id != "" {
		request.Path["seqid"] = id
	}
	return request
}

func track(ctx context.Context, endpoint string, response *refget.Response) {
	tracker := analytics.TrackerFromContext(ctx)
	switch {
	case response.Failed():
		status := int64(response.Status)
		tracker(analytics.Event(endpoint, endpoint+" Request Rejected", http.StatusText(response.Status), &status))
		if response.Status >= http.StatusInternalServerError {
			tracker(analytics.Exception(endpoint+": "+response.Body, false))
		}
	case response.Status == http.StatusFound:
		tracker(analytics.Event(endpoint, endpoint+" Request Redirected", "", nil))
	default:
		tracker(analytics.Event(endpoint, endpoint+" Request Served", "", nil))
	}
}

func writeResponse(w http.ResponseWriter, response *refget.Response) {
	for key, value := range response.Header {
		w.Header().Set(key, value)
	}
	w.WriteHeader(response.Status)
	if _, err := io.WriteString(w, response.Body); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

type forwardOrigin func(w http.ResponseWriter, req *http.Request)

func (f forwardOrigin) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if origin := req.Header.Get("Origin"); origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
	f(w, req)
}
