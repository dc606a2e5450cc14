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

// Package refget validates requests made to the refget sequence retrieval
// API.
//
// The version implemented by this package is v1.0.0 defined at:
// https://samtools.github.io/hts-specs/refget.html.
//
// A request is checked by running an ordered list of stages over a shared
// State.  Each stage either returns nil, allowing the next stage to run, or
// an error that becomes the final response.
package refget

import (
	"context"

	"github.com/googlegenomics/refget/internal/genomics"
)

// Kind identifies how a subsequence was requested.
type Kind int

const (
	// None means the whole sequence was requested.
	None Kind = iota
	// StartEnd means the start and/or end query parameters were used.  End is
	// exclusive.
	StartEnd
	// Range means the Range header was used.  End is inclusive.
	Range
)

func (kind Kind) String() string {
	switch kind {
	case StartEnd:
		return "start-end"
	case Range:
		return "range"
	}
	return "none"
}

// State is threaded through every stage of a pipeline.  Stages record what
// they have learned about the request here for the benefit of later stages.
type State struct {
	Request  *Request
	Response *Response

	// Kind is set by ResolveSubsequence.
	Kind Kind

	// start and end hold the raw coordinate tokens found by ParseCoordinates.
	start, end string

	// Interval is set by CheckUnsigned.
	Interval genomics.Interval

	// Length is the sequence length found by CheckBounds.
	Length uint64
}

// NewState returns a State for handling req with a fresh Response.
func NewState(req *Request) *State {
	return &State{Request: req, Response: NewResponse()}
}

// Stage is a single step of request validation.
type Stage func(ctx context.Context, state *State) error

// Run executes stages in order, stopping at the first stage that fails.  The
// error of the failing stage is recorded on the response and returned.
func Run(ctx context.Context, state *State, stages ...Stage) error {
	for _, stage := range stages {
		if state.Response.Failed() {
			break
		}
		if err := stage(ctx, state); err != nil {
			state.Response.Fail(err)
			return err
		}
	}
	return nil
}

// SequenceStages returns the stages used to validate a request for sequence
// data: media type negotiation followed by subsequence validation.
func SequenceStages(negotiator *Negotiator, metadata MetadataSource, supported ...string) []Stage {
	return []Stage{
		negotiator.Stage(supported...),
		ResolveSubsequence,
		ParseCoordinates,
		CheckUnsigned,
		CheckBounds(metadata),
		CheckCircular,
	}
}
