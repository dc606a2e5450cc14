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
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/googlegenomics/refget/internal/refget"
)

func TestStorageError(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		status  int
		message string
		logged  string
	}{
		{"missing object", errObjectNotExist, http.StatusNotFound, "sequence abc not found", ""},
		{"forbidden", &statusError{http.StatusForbidden, errors.New("access denied")}, http.StatusBadGateway, "sequence abc could not be retrieved", "status 403"},
		{"no status", errors.New("connection reset"), http.StatusInternalServerError, "Internal Server Error", "connection reset"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			log.SetOutput(&logs)
			defer log.SetOutput(os.Stderr)

			response := refget.NewResponse()
			response.Fail(storageError("abc", tc.err))

			if got, want := response.Status, tc.status; got != want {
				t.Errorf("Wrong status code: got %v, want %v", got, want)
			}
			if !strings.Contains(response.Body, tc.message) {
				t.Errorf("Wrong body: got %q, want message %q", response.Body, tc.message)
			}
			if tc.logged == "" && logs.Len() != 0 {
				t.Errorf("Unexpected log output: %q", logs.String())
			}
			if !strings.Contains(logs.String(), tc.logged) {
				t.Errorf("Wrong log output: got %q, want it to contain %q", logs.String(), tc.logged)
			}
		})
	}
}
