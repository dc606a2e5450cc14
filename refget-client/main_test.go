package main

import (
	"testing"

	"github.com/googlegenomics/refget/internal/refget"
)

func TestNewRequest(t *testing.T) {
	defer func(s, e, r string, m bool) { *start, *end, *byteRange, *metadata = s, e, r, m }(*start, *end, *byteRange, *metadata)

	testCases := []struct {
		name                     string
		start, end, byteRange    string
		metadata                 bool
		url, accept, rangeHeader string
	}{
		{"whole sequence", "", "", "", false, "http://localhost/sequence/abc", refget.ContentTypeText, ""},
		{"start and end", "10", "20", "", false, "http://localhost/sequence/abc?start=10&end=20", refget.ContentTypeText, ""},
		{"end only", "", "20", "", false, "http://localhost/sequence/abc?end=20", refget.ContentTypeText, ""},
		{"range", "", "", "10-19", false, "http://localhost/sequence/abc", refget.ContentTypeText, "bytes=10-19"},
		{"metadata", "10", "", "10-19", true, "http://localhost/sequence/abc/metadata", refget.ContentTypeJSON, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			*start, *end, *byteRange, *metadata = tc.start, tc.end, tc.byteRange, tc.metadata

			req, err := newRequest("http://localhost/sequence/abc")
			if err != nil {
				t.Fatalf("newRequest() failed: %v", err)
			}
			if got, want := req.URL.String(), tc.url; got != want {
				t.Errorf("Wrong URL: got %v, want %v", got, want)
			}
			if got, want := req.Header.Get("Accept"), tc.accept; got != want {
				t.Errorf("Wrong Accept header: got %v, want %v", got, want)
			}
			if got, want := req.Header.Get("Range"), tc.rangeHeader; got != want {
				t.Errorf("Wrong Range header: got %v, want %v", got, want)
			}
		})
	}
}

func TestHumanSize(t *testing.T) {
	testCases := []struct {
		n    int64
		want string
	}{
		{25, "25 bytes"},
		{5 * 1024, "5 KB"},
		{3 * 1024 * 1024, "3 MB"},
		{4 * 1024 * 1024 * 1024, "4 GB"},
	}
	for _, tc := range testCases {
		if got := humanSize(tc.n); got != tc.want {
			t.Errorf("humanSize(%d): got %q, want %q", tc.n, got, tc.want)
		}
	}
}
