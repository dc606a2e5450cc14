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
	"fmt"
	"net/http"
)

const circularMessage = "server DOES NOT support circular sequences, end MUST be higher than start"

var errInvalidRange = &Error{http.StatusRequestedRangeNotSatisfiable, "Invalid sequence range provided"}

// Alias is an alternative name for a sequence.
type Alias struct {
	Alias           string `json:"alias"`
	NamingAuthority string `json:"naming_authority"`
}

// Metadata describes a reference sequence.
type Metadata struct {
	ID       string  `json:"id,omitempty"`
	MD5      string  `json:"md5"`
	TRUNC512 string  `json:"trunc512"`
	Length   uint64  `json:"length"`
	Aliases  []Alias `json:"aliases"`
}

// MetadataSource looks up the metadata of a sequence by its identifier.
type MetadataSource interface {
	Metadata(ctx context.Context, id string) (*Metadata, error)
}

// UpstreamError is returned by a MetadataSource when the backing store
// answered with a status other than success.
type UpstreamError struct {
	Status int
	Err    error
}

func (err *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %v", err.Status, err.Err)
}

func (err *UpstreamError) Unwrap() error {
	return err.Err
}

// CheckBounds returns a stage that verifies the requested interval lies
// within the sequence named by the "seqid" path parameter.  The length of the
// sequence is read from metadata.
//
// A start position must always be less than the sequence length.  When the
// subsequence was requested with start/end, the end position may be at most
// the sequence length.  The end position of a Range header is not checked.
func CheckBounds(metadata MetadataSource) Stage {
	return func(ctx context.Context, state *State) error {
		if state.Kind == None {
			return nil
		}

		id := state.Request.Path["seqid"]
		m, err := metadata.Metadata(ctx, id)
		if err != nil {
			var upstream *UpstreamError
			if errors.As(err, &upstream) {
				return newError(upstream.Status, "sequence %s not found", id)
			}
			return newError(http.StatusInternalServerError, "sequence %s metadata could not be retrieved", id)
		}
		state.Length = m.Length

		start, end := state.Interval.Start, state.Interval.End
		if start.Set && start.Position >= m.Length {
			return errInvalidRange
		}
		if state.Kind == StartEnd && end.Set && end.Position > m.Length {
			return errInvalidRange
		}
		return nil
	}
}

// CheckCircular rejects intervals whose start is past their end.  Such a
// request is unsatisfiable when made with a Range header and a recognized
// but unimplemented feature when made with start/end.
func CheckCircular(_ context.Context, state *State) error {
	if !state.Interval.Circular() {
		return nil
	}
	if state.Kind == Range {
		return &Error{http.StatusRequestedRangeNotSatisfiable, circularMessage}
	}
	return &Error{http.StatusNotImplemented, circularMessage}
}
