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

// This binary provides a refget client that supports Google authentication.
//
// Each argument is the URL of a sequence, for example
// http://localhost:8888/sequence/2085c82d80500a91dd0b8aa9237b0e43f1c07809bd6e6785.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/googlegenomics/refget/internal/refget"
)

const (
	scope = "https://www.googleapis.com/auth/devstorage.read_only"
)

var (
	start     = flag.String("start", "", "first base of the subsequence (0-based)")
	end       = flag.String("end", "", "base following the last base of the subsequence")
	byteRange = flag.String("range", "", "inclusive subsequence FIRST-LAST, sent as a Range header")
	metadata  = flag.Bool("metadata", false, "fetch sequence metadata instead of bases")
	auth      = flag.Bool("auth", false, "send Google application default credentials")
	output    = flag.String("o", "", "output filename")
)

func main() {
	flag.Parse()

	w := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to open output file: %v", err)
		}
		defer f.Close()

		w = f
	}

	ctx := context.Background()

	// For compatibility with other tools, read the standard cURL certificate
	// authority override from the environment.
	if bundle := os.Getenv("CURL_CA_BUNDLE"); bundle != "" {
		pem, err := ioutil.ReadFile(bundle)
		if err != nil {
			log.Fatalf("Failed to read CA override file %q: %v", bundle, err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			log.Fatalf("Failed to initialize system certificate pool: %v", err)
		}
		if !pool.AppendCertsFromPEM(pem) {
			log.Fatalf("Failed to add certificates from bundle %q", bundle)
		}
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					RootCAs: pool,
				}},
		})
		log.Printf("Using CA override bundle from %q", bundle)
	}

	client := http.DefaultClient
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok {
		client = c
	}
	if *auth {
		c, err := google.DefaultClient(ctx, scope)
		if err != nil {
			log.Fatalf("Failed to create client: %v", err)
		}
		client = c
	}

	for _, target := range flag.Args() {
		req, err := newRequest(target)
		if err != nil {
			log.Fatalf("Invalid target %q: %v", target, err)
		}

		log.Printf("Fetching %q", req.URL)
		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			log.Fatalf("Request failed: %v", err)
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
			log.Fatalf("Unexpected response: %v", errorFromResponse(resp))
		}

		n, err := io.Copy(w, resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Fatalf("Copying data: %v", err)
		}
		log.Printf("Wrote %s", humanSize(n))
	}
}

// newRequest builds the request for target described by the command line
// flags.
func newRequest(target string) (*http.Request, error) {
	accept := refget.ContentTypeText
	if *metadata {
		accept = refget.ContentTypeJSON
		target = strings.TrimSuffix(target, "/") + "/metadata"
	} else {
		target = addParameter(target, "start", *start)
		target = addParameter(target, "end", *end)
	}

	req, err := http.NewRequest("GET", target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %v", err)
	}
	req.Header.Set("Accept", accept)
	if *byteRange != "" && !*metadata {
		req.Header.Set("Range", "bytes="+*byteRange)
	}
	return req, nil
}

func addParameter(input, name, value string) string {
	if value == "" {
		return input
	}
	values := url.Values{}
	values.Set(name, value)
	if strings.Contains(input, "?") {
		return input + "&" + values.Encode()
	}
	return input + "?" + values.Encode()
}

func humanSize(n int64) string {
	kb := n / 1024
	mb := kb / 1024
	gb := mb / 1024
	if gb > 1 {
		return fmt.Sprintf("%d GB", gb)
	}
	if mb > 1 {
		return fmt.Sprintf("%d MB", mb)
	}
	if kb > 1 {
		return fmt.Sprintf("%d KB", kb)
	}
	return fmt.Sprintf("%d bytes", n)
}

func errorFromResponse(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		return fmt.Errorf("%s: %v", resp.Status, body.Message)
	}
	return fmt.Errorf("unexpected response status: %q", resp.Status)
}
