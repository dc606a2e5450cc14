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

package refget

import (
	"context"
	"net/http"
	"reflect"
	"testing"
)

func TestNegotiator_Acceptable(t *testing.T) {
	n := NewNegotiator([]string{ContentTypeJSON, ContentTypeText})
	testCases := []struct {
		name, accept string
		want         []string
	}{
		{"absent", "", []string{ContentTypeJSON, ContentTypeText}},
		{"single", "text/plain", []string{"text/plain"}},
		{"list", "text/plain, application/json", []string{"text/plain", "application/json"}},
		{"parameters", "text/plain;q=0.5,application/json; charset=utf-8", []string{"text/plain", "application/json"}},
		{"wildcard", "*/*", []string{"*/*", ContentTypeJSON, ContentTypeText}},
		{"parameters before later entries", "text/x;q=1, " + ContentTypeText, []string{"text/x", ContentTypeText}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got, want := n.Acceptable(tc.accept), tc.want; !reflect.DeepEqual(got, want) {
				t.Errorf("Wrong media types: got %q, want %q", got, want)
			}
		})
	}
}

func TestNegotiator_Stage(t *testing.T) {
	jsonOnly := []string{ContentTypeJSON, "application/json"}
	textOnly := []string{ContentTypeText, "text/plain"}
	testCases := []struct {
		name, accept string
		supported    []string
		status       int
		contentType  string
	}{
		{"no accept header", "", textOnly, http.StatusOK, ContentTypeText},
		{"any type", "*/*", jsonOnly, http.StatusOK, ContentTypeJSON},
		{"any type for text", "*/*", textOnly, http.StatusOK, ContentTypeText},
		{"client order wins", "application/json, " + ContentTypeJSON, jsonOnly, http.StatusOK, "application/json"},
		{"unknown type", "text/unknown", jsonOnly, http.StatusNotAcceptable, ContentTypeJSON},
		{"text for json endpoint", "text/plain", jsonOnly, http.StatusNotAcceptable, ContentTypeJSON},
		{"entries after parameters are kept", "text/x;q=1, " + ContentTypeText, textOnly, http.StatusOK, ContentTypeText},
	}
	n := NewNegotiator(DefaultMediaTypes())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := NewRequest()
			if tc.accept != "" {
				req.Header["Accept"] = tc.accept
			}
			state := NewState(req)
			Run(context.Background(), state, n.Stage(tc.supported...))

			if got, want := state.Response.Status, tc.status; got != want {
				t.Errorf("Wrong status code: got %v, want %v", got, want)
			}
			if got, want := state.Response.Header["Content-Type"], tc.contentType; got != want {
				t.Errorf("Wrong content type: got %q, want %q", got, want)
			}
			if tc.status == http.StatusOK && state.Response.Body != "" {
				t.Errorf("Unexpected body: %q", state.Response.Body)
			}
		})
	}
}
