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
	"strings"
)

const anyMediaType = "*/*"

var errNotAcceptable = &Error{http.StatusNotAcceptable, "requested media type(s) not supported"}

// DefaultMediaTypes returns the media types a client is assumed to accept
// when it sends no Accept header.
func DefaultMediaTypes() []string {
	return []string{ContentTypeJSON, ContentTypeText}
}

// Negotiator selects a response media type from a client's Accept header.
// Must be created with NewNegotiator.
type Negotiator struct {
	defaults []string
}

// NewNegotiator returns a Negotiator that falls back to defaults when the
// client does not state its preferences or accepts any type.
func NewNegotiator(defaults []string) *Negotiator {
	return &Negotiator{append([]string(nil), defaults...)}
}

// Acceptable returns the media types acceptable to a client that sent the
// provided Accept header, in the order the client listed them.
func (n *Negotiator) Acceptable(accept string) []string {
	if accept == "" {
		return append([]string(nil), n.defaults...)
	}

	var types []string
	var wildcard bool
	for _, field := range strings.Split(accept, ",") {
		if i := strings.Index(field, ";"); i >= 0 {
			field = field[:i]
		}
		field = strings.TrimSpace(field)
		if field == anyMediaType {
			wildcard = true
		}
		types = append(types, field)
	}
	if wildcard {
		types = append(types, n.defaults...)
	}
	return types
}

// Negotiate returns the first type acceptable to the client that is also in
// supported.
func (n *Negotiator) Negotiate(accept string, supported []string) (string, error) {
	for _, candidate := range n.Acceptable(accept) {
		for _, s := range supported {
			if candidate == s {
				return s, nil
			}
		}
	}
	return "", errNotAcceptable
}

// Stage returns a pipeline stage that negotiates among the supported media
// types.  On success the chosen type is set as the response Content-Type and
// the response is marked OK.
func (n *Negotiator) Stage(supported ...string) Stage {
	supported = append([]string(nil), supported...)
	return func(_ context.Context, state *State) error {
		mediaType, err := n.Negotiate(state.Request.Header["Accept"], supported)
		if err != nil {
			return err
		}
		state.Response.SetStatus(http.StatusOK)
		state.Response.Header["Content-Type"] = mediaType
		state.Response.Body = ""
		return nil
	}
}
