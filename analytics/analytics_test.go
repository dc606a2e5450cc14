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

package analytics

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
)

const testEndpoint = "https://analytics.test"

func TestClient_Send_Batches(t *testing.T) {
	client, transport := fakeBackend()
	transport.RegisterResponder("POST", testEndpoint+"/batch", httpmock.NewStringResponder(http.StatusOK, ""))

	var hits []Hit
	for i := 0; i < client.batchSize*4+1; i++ {
		hits = append(hits, Event("tests", "test", "", nil))
	}
	if err := client.Send(context.Background(), hits); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got, want := transport.GetTotalCallCount(), 5; got != want {
		t.Errorf("Wrong number of requests: got %d, want %d", got, want)
	}
}

func TestClient_Send_Empty(t *testing.T) {
	client, transport := fakeBackend()
	if err := client.Send(context.Background(), nil); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := transport.GetTotalCallCount(); got != 0 {
		t.Errorf("Wrong number of requests: got %d, want 0", got)
	}
}

func TestClient_Send_Failure(t *testing.T) {
	client, transport := fakeBackend()
	transport.RegisterResponder("POST", testEndpoint+"/batch", httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))

	if err := client.Send(context.Background(), []Hit{Exception("failure", true)}); err == nil {
		t.Error("Send succeeded with an unavailable backend")
	}
}

func TestClient_Send_VerifyPayloads(t *testing.T) {
	var payloads []string

	client, transport := fakeBackend()
	transport.RegisterResponder("POST", testEndpoint+"/batch", func(req *http.Request) (*http.Response, error) {
		scanner := bufio.NewScanner(req.Body)
		for scanner.Scan() {
			payloads = append(payloads, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return httpmock.NewStringResponse(http.StatusOK, ""), nil
	})

	var hits []Hit
	for i := int64(0); i < 10; i++ {
		hits = append(hits, Event("tests", "test", fmt.Sprintf("%d", i), &i))
	}

	if err := client.Send(context.Background(), hits); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got, want := len(payloads), len(hits); got != want {
		t.Fatalf("Wrong number of payloads: got %d, want %d", got, want)
	}

	for i, payload := range payloads {
		got, err := url.ParseQuery(payload)
		if err != nil {
			t.Errorf("Failed to parse payload: %q: %v", payload, err)
		}

		want := url.Values{
			"v":   []string{"1"},
			"cid": []string{client.clientID},
			"tid": []string{client.propertyID},
		}
		for key, value := range hits[i] {
			want.Add(key, value)
		}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("Wrong payload for hit %d: got %v, want %v", i, got, want)
		}
	}
}

func TestEvent_TypeParameter(t *testing.T) {
	if got, want := Event("tests", "test", "", nil)["t"], "event"; got != want {
		t.Errorf("Wrong hit type: got %q, want %q", got, want)
	}
}

func TestEvent_OptionalParameters(t *testing.T) {
	if _, ok := Event("tests", "test", "", nil)["el"]; ok {
		t.Error("Label parameter was added for empty label")
	}
	if _, ok := Event("tests", "test", "", nil)["ev"]; ok {
		t.Error("Value parameter was added for empty label")
	}
}

func TestEvent_Values(t *testing.T) {
	testcases := []struct {
		name  string
		value int64
		want  string
	}{
		{"zero", 0, "0"},
		{"maximum", math.MaxInt64, strconv.Itoa(math.MaxInt64)},
		{"minimum", math.MinInt64, strconv.Itoa(math.MinInt64)},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Event("tests", "test", "", &tc.value)["ev"]; got != tc.want {
				t.Fatalf("Wrong value: got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestException(t *testing.T) {
	testcases := []struct {
		fatal bool
		want  Hit
	}{
		{false, Hit{"t": "exception", "exd": "broken", "exf": "0"}},
		{true, Hit{"t": "exception", "exd": "broken", "exf": "1"}},
	}
	for _, tc := range testcases {
		if got := Exception("broken", tc.fatal); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Exception(%v): got %v, want %v", tc.fatal, got, tc.want)
		}
	}
}

var trackedHits = []Hit{
	Event("tests", "test", "a", nil),
	Event("tests", "test", "b", nil),
}

func track(req *http.Request) {
	track := TrackerFromContext(req.Context())
	for i := range trackedHits {
		track(trackedHits[i])
	}
}

func verifyHits(t *testing.T, invoked *bool) func([]Hit) {
	return func(got []Hit) {
		if len(got) != len(trackedHits) {
			t.Fatalf("Wrong number of hits: got %d, want %d", len(got), len(trackedHits))
		}
		for i := range trackedHits {
			if !reflect.DeepEqual(got[i], trackedHits[i]) {
				t.Errorf("Hit %d: got %v, want %v", i, got[i], trackedHits[i])
			}
		}
		*invoked = true
	}
}

func TestTrackingHandler(t *testing.T) {
	handler := http.HandlerFunc(func(_ http.ResponseWriter, req *http.Request) {
		track(req)
	})

	var invoked bool
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	TrackingHandler(handler, verifyHits(t, &invoked)).ServeHTTP(w, req)

	if !invoked {
		t.Error("tracker function was not invoked")
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var invoked bool
	router := gin.New()
	router.Use(Middleware(verifyHits(t, &invoked)))
	router.GET("/test", func(c *gin.Context) {
		track(c.Request)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	if !invoked {
		t.Error("tracker function was not invoked")
	}
}

func TestTrackerFromContext_WithEmptyContextIsNotNil(t *testing.T) {
	ctx := context.Background()
	if track := TrackerFromContext(ctx); track == nil {
		t.Error("TrackerFromContext returned nil")
	}
}

func fakeBackend() (*Client, *httpmock.MockTransport) {
	transport := httpmock.NewMockTransport()
	client := NewClient("UA-TEST123", "0001-0002-0003-0004",
		WithEndpoint(testEndpoint+"/"),
		WithHTTPClient(&http.Client{Transport: transport}))
	return client, transport
}
