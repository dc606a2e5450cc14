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
	"encoding/json"
	"fmt"
	"net/http"
)

// Media types defined by the refget protocol.
const (
	ContentTypeText = "text/vnd.ga4gh.refget.v1.0.0+plain"
	ContentTypeJSON = "application/vnd.ga4gh.refget.v1.0.0+json"
)

// Request is a framework independent view of an inbound refget request.  It
// is never modified once constructed.
type Request struct {
	Header map[string]string
	Path   map[string]string
	Query  map[string]string
}

// NewRequest returns an empty Request.
func NewRequest() *Request {
	return &Request{
		Header: make(map[string]string),
		Path:   make(map[string]string),
		Query:  make(map[string]string),
	}
}

// Error describes a request that cannot be satisfied.  Message is returned to
// the client verbatim.
type Error struct {
	Status  int
	Message string
}

func (err *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", http.StatusText(err.Status), err.Status, err.Message)
}

func newError(status int, format string, args ...interface{}) *Error {
	return &Error{status, fmt.Sprintf(format, args...)}
}

// Response accumulates the outcome of handling a Request.  A new Response is
// in an error state (400) until a stage marks it OK.  Once SetError has been
// called the status is final: later calls to SetStatus, SetError and
// SetRedirect are ignored.
type Response struct {
	Status int
	Header map[string]string
	Body   string

	failed bool
}

// NewResponse returns a Response in the initial error state.
func NewResponse() *Response {
	return &Response{
		Status: http.StatusBadRequest,
		Header: make(map[string]string),
	}
}

// OK reports whether processing of the request may continue.
func (r *Response) OK() bool {
	return !r.failed && r.Status == http.StatusOK
}

// Failed reports whether a terminal error has been recorded.
func (r *Response) Failed() bool {
	return r.failed
}

// SetStatus sets the status code unless the response has already failed.
func (r *Response) SetStatus(status int) {
	if r.failed {
		return
	}
	r.Status = status
}

// SetError records a terminal error with a JSON message body.
func (r *Response) SetError(status int, message string) {
	if r.failed {
		return
	}
	body, err := json.Marshal(struct {
		Message string `json:"message"`
	}{message})
	if err != nil {
		// A string always encodes.
		panic(err)
	}
	r.failed = true
	r.Status = status
	r.Header["Content-Type"] = ContentTypeJSON
	r.Body = string(body)
}

// Fail records err as the terminal error of the response.  Errors that are
// not *Error are reported as internal server errors without exposing their
// text.
func (r *Response) Fail(err error) {
	if e, ok := err.(*Error); ok {
		r.SetError(e.Status, e.Message)
		return
	}
	r.SetError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// SetRedirect points the client at url with a 302 Found status.
func (r *Response) SetRedirect(url string) {
	if r.failed {
		return
	}
	r.Status = http.StatusFound
	r.Header["Location"] = url
}

// SetBody sets a successful response body of the given status.
func (r *Response) SetBody(status int, body string) {
	if r.failed {
		return
	}
	r.Status = status
	r.Header["Content-Length"] = fmt.Sprintf("%d", len(body))
	r.Body = body
}
