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

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"

	"github.com/googlegenomics/refget/internal/refget"
)

// ServiceInfo describes the capabilities of the server.
type ServiceInfo struct {
	CircularSupported    bool     `json:"circular_supported"`
	Algorithms           []string `json:"algorithms"`
	SubsequenceLimit     uint64   `json:"subsequence_limit"`
	SupportedAPIVersions []string `json:"supported_api_versions"`
}

// DefaultServiceInfo returns the capabilities of this implementation.
func DefaultServiceInfo() ServiceInfo {
	return ServiceInfo{
		CircularSupported:    false,
		Algorithms:           []string{"md5", "trunc512"},
		SubsequenceLimit:     300000,
		SupportedAPIVersions: []string{"1.0"},
	}
}

func (server *Server) getSequence(ctx context.Context, req *refget.Request) *refget.Response {
	state := refget.NewState(req)
	if err := refget.Run(ctx, state, server.sequenceStages...); err != nil {
		return state.Response
	}

	id := req.Path["seqid"]
	handle := server.client.NewObjectHandle(server.properties.SequenceObject(id))
	response := state.Response

	switch {
	case state.Kind == refget.StartEnd:
		offset, length := state.Interval.Offsets()
		body, err := readObject(ctx, handle, offset, length)
		if err != nil {
			log.Printf("Failed to read %s %v: %v", id, state.Interval, err)
			if url := handle.URL(); url != "" {
				response.SetRedirect(url)
				return response
			}
			response.Fail(storageError(id, err))
			return response
		}
		response.SetBody(http.StatusOK, body)
	case handle.URL() != "":
		response.SetRedirect(handle.URL())
	case state.Kind == refget.Range:
		start, end := state.Interval.Start.Position, state.Interval.End.Position
		if end >= state.Length {
			end = state.Length - 1
		}
		body, err := readObject(ctx, handle, int64(start), int64(end-start+1))
		if err != nil {
			response.Fail(storageError(id, err))
			return response
		}
		response.SetBody(http.StatusPartialContent, body)
		response.Header["Content-Range"] = fmt.Sprintf("bytes %d-%d/%d", start, end, state.Length)
	default:
		body, err := readObject(ctx, handle, 0, -1)
		if err != nil {
			response.Fail(storageError(id, err))
			return response
		}
		response.SetBody(http.StatusOK, body)
	}
	return response
}

func (server *Server) getMetadata(ctx context.Context, req *refget.Request) *refget.Response {
	state := refget.NewState(req)
	if err := refget.Run(ctx, state, server.jsonStages...); err != nil {
		return state.Response
	}

	id := req.Path["seqid"]
	handle := server.client.NewObjectHandle(server.properties.MetadataObject(id))
	response := state.Response
	if url := handle.URL(); url != "" {
		response.SetRedirect(url)
		return response
	}

	body, err := readObject(ctx, handle, 0, -1)
	if err != nil {
		response.Fail(storageError(id, err))
		return response
	}
	response.SetBody(http.StatusOK, body)
	return response
}

func (server *Server) getServiceInfo(ctx context.Context, req *refget.Request) *refget.Response {
	state := refget.NewState(req)
	if err := refget.Run(ctx, state, server.jsonStages...); err != nil {
		return state.Response
	}

	body, err := json.Marshal(struct {
		Service ServiceInfo `json:"service"`
	}{server.serviceInfo})
	if err != nil {
		state.Response.Fail(fmt.Errorf("encoding service info: %v", err))
		return state.Response
	}
	state.Response.SetBody(http.StatusOK, string(body))
	return state.Response
}

func readObject(ctx context.Context, handle ObjectHandle, offset, length int64) (string, error) {
	r, err := handle.NewRangeReader(ctx, offset, length)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading object: %v", err)
	}
	return string(data), nil
}

// storageError converts an error from the storage engine into one suitable
// for returning to the client.
func storageError(id string, err error) error {
	if code, ok := storageStatus(err); ok {
		if code == http.StatusNotFound {
			return &refget.Error{Status: code, Message: fmt.Sprintf("sequence %s not found", id)}
		}
		log.Printf("Storage refused sequence %s with status %d: %v", id, code, err)
		return &refget.Error{Status: http.StatusBadGateway, Message: fmt.Sprintf("sequence %s could not be retrieved", id)}
	}
	log.Printf("Failed to read sequence %s: %v", id, err)
	return err
}
