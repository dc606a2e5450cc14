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
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
)

// HTTPClient is a Client for objects served over HTTP, such as a bucket
// configured as a static website.
type HTTPClient struct {
	// BaseURL is prepended to every object path.
	BaseURL string
	// Client is used to make requests.  If nil, http.DefaultClient is used.
	Client *http.Client
}

// NewObjectHandle returns a handle to the object at BaseURL + path.
func (c *HTTPClient) NewObjectHandle(path string) ObjectHandle {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	return httpObjectHandle{client, c.BaseURL + path}
}

type httpObjectHandle struct {
	client *http.Client
	url    string
}

func (h httpObjectHandle) URL() string {
	return h.url
}

func (h httpObjectHandle) NewRangeReader(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	if length == 0 {
		return emptyReader(), nil
	}

	req, err := http.NewRequest("GET", h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %v", err)
	}
	req = req.WithContext(ctx)
	if r := rangeHeader(offset, length); r != "" {
		req.Header.Set("Range", r)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching object: %v", err)
	}

	switch resp.StatusCode {
	case http.StatusPartialContent:
		return resp.Body, nil
	case http.StatusOK:
		// The server ignored the Range header and sent the whole object.
		if offset > 0 {
			if _, err := io.CopyN(ioutil.Discard, resp.Body, offset); err != nil {
				resp.Body.Close()
				return nil, fmt.Errorf("skipping to offset %d: %v", offset, err)
			}
		}
		if length < 0 {
			return resp.Body, nil
		}
		return &limitedReadCloser{io.LimitReader(resp.Body, length), resp.Body}, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, &statusError{resp.StatusCode, errObjectNotExist}
	}
	resp.Body.Close()
	return nil, &statusError{resp.StatusCode, fmt.Errorf("unexpected response status: %v", resp.Status)}
}

type limitedReadCloser struct {
	io.Reader
	io.Closer
}
