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
	"errors"
	"math"
	"net/http"
	"regexp"
	"strconv"

	"github.com/googlegenomics/refget/internal/genomics"
)

var (
	errAmbiguousSubsequence = &Error{http.StatusBadRequest, "Cannot provide both sequence start/end AND Range"}
	errInvalidRangeHeader   = &Error{http.StatusBadRequest, "Invalid 'Range' header"}
	errNotUnsigned          = &Error{http.StatusBadRequest, "start/end must be unsigned int"}

	errNegative = errors.New("negative value")

	rangePattern = regexp.MustCompile(`bytes=(\d+)-(\d+)`)
)

// ResolveSubsequence determines whether (and how) a subsequence was
// requested.  The start/end query parameters and the Range header may not be
// used together.
func ResolveSubsequence(_ context.Context, state *State) error {
	var (
		query  = state.Request.Query
		header = state.Request.Header
	)
	useStartEnd := query["start"] != "" || query["end"] != ""
	useRange := header["Range"] != ""

	switch {
	case useStartEnd && useRange:
		return errAmbiguousSubsequence
	case useStartEnd:
		state.Kind = StartEnd
	case useRange:
		state.Kind = Range
	default:
		state.Kind = None
	}
	return nil
}

// ParseCoordinates extracts the raw start and end tokens of the requested
// subsequence.  Either bound may be absent when start/end were used; a Range
// header must specify both.
func ParseCoordinates(_ context.Context, state *State) error {
	switch state.Kind {
	case StartEnd:
		state.start = state.Request.Query["start"]
		state.end = state.Request.Query["end"]
	case Range:
		match := rangePattern.FindStringSubmatch(state.Request.Header["Range"])
		if match == nil {
			return errInvalidRangeHeader
		}
		state.start, state.end = match[1], match[2]
	}
	return nil
}

// CheckUnsigned verifies that each coordinate present is a non-negative
// integer and records the parsed interval.
func CheckUnsigned(_ context.Context, state *State) error {
	if state.Kind == None {
		return nil
	}

	var interval genomics.Interval
	for _, c := range []struct {
		token string
		bound *genomics.Bound
	}{
		{state.start, &interval.Start},
		{state.end, &interval.End},
	} {
		if c.token == "" {
			continue
		}
		n, err := parseUnsigned(c.token)
		if err != nil {
			return errNotUnsigned
		}
		*c.bound = genomics.At(n)
	}
	state.Interval = interval
	return nil
}

// parseUnsigned parses s as a base 10 integer and rejects negative values.
// Positive values too large for 64 bits saturate.
func parseUnsigned(s string) (uint64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && n > 0 {
			return math.MaxUint64, nil
		}
		return 0, err
	}
	if n < 0 {
		return 0, errNegative
	}
	return uint64(n), nil
}
