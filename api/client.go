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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
)

var errObjectNotExist = errors.New("object does not exist")

// Client is an interface to the storage engine holding sequences and their
// metadata.
type Client interface {
	// NewObjectHandle returns a handle to the object at path in the storage
	// engine.  Paths are slash separated and begin with a slash.
	NewObjectHandle(path string) ObjectHandle
}

// ObjectHandle is an interface to the actual storage engine in use.
type ObjectHandle interface {
	// NewRangeReader returns a reader that reads from a specified
	// range. Length of -1 means to capture everything until the
	// end.
	NewRangeReader(ctx context.Context, offset, length int64) (io.ReadCloser, error)

	// URL returns a location from which clients can fetch the object
	// directly, or the empty string if there is none.
	URL() string
}

// NewClient returns the Client for the storage engine identified by
// baseURL.  The scheme selects the engine: http and https for web hosted
// buckets, gs for Google Cloud Storage, s3 for Amazon S3 and file (or no
// scheme) for a local directory.
func NewClient(ctx context.Context, baseURL string) (Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %v", err)
	}

	switch u.Scheme {
	case "http", "https":
		return &HTTPClient{BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
	case "gs":
		client, err := NewGCSClient(ctx, u.Host, u.Path)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "s3":
		client, err := NewS3Client(ctx, u.Host, u.Path)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "file", "":
		return FileClient{Directory: u.Path}, nil
	}
	return nil, fmt.Errorf("unsupported storage scheme %q", u.Scheme)
}

// statusError records the HTTP status with which a storage engine refused a
// request.
type statusError struct {
	code  int
	cause error
}

func (err *statusError) Error() string {
	return fmt.Sprintf("%s (%d): %v", http.StatusText(err.code), err.code, err.cause)
}

func (err *statusError) Unwrap() error {
	return err.cause
}

// storageStatus returns the HTTP status a storage engine reported for err, if
// any.
func storageStatus(err error) (int, bool) {
	if errors.Is(err, errObjectNotExist) {
		return http.StatusNotFound, true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code, true
	}
	return 0, false
}

// objectName joins prefix and path into the name of an object in a bucket.
func objectName(prefix, path string) string {
	name := strings.Trim(prefix, "/")
	path = strings.TrimPrefix(path, "/")
	if name == "" {
		return path
	}
	return name + "/" + path
}

// emptyReader is returned for reads of zero bytes, which a Range header
// cannot express.
func emptyReader() io.ReadCloser {
	return ioutil.NopCloser(bytes.NewReader(nil))
}

// rangeHeader returns the value of an HTTP Range header requesting length
// bytes at offset, or the empty string when the whole object is wanted.
// length must not be zero.
func rangeHeader(offset, length int64) string {
	switch {
	case length < 0 && offset == 0:
		return ""
	case length < 0:
		return fmt.Sprintf("bytes=%d-", offset)
	}
	return fmt.Sprintf("bytes=%d-%d", offset, offset+length-1)
}
