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

// Package genomics contains definitions related to Genomic data.
package genomics

import "fmt"

// Bound is an optional base position on a reference sequence.  The zero value
// is an unset bound.
type Bound struct {
	Position uint64
	Set      bool
}

// At returns a Bound set to position.
func At(position uint64) Bound {
	return Bound{Position: position, Set: true}
}

func (b Bound) String() string {
	if !b.Set {
		return "*"
	}
	return fmt.Sprintf("%d", b.Position)
}

// Interval defines a subsequence of a reference sequence.  How End is
// interpreted (inclusive or exclusive) depends on how the interval was
// requested.
type Interval struct {
	Start, End Bound
}

// Circular reports whether both bounds are set and the interval wraps around
// the origin of the sequence.
func (interval Interval) Circular() bool {
	return interval.Start.Set && interval.End.Set && interval.Start.Position > interval.End.Position
}

// Offsets returns the offset and length of the half-open interval
// [Start, End) on a sequence of unknown length.  An unset Start is treated as
// zero and an unset End yields a length of -1, meaning "until the end".
func (interval Interval) Offsets() (int64, int64) {
	var offset int64
	if interval.Start.Set {
		offset = int64(interval.Start.Position)
	}
	if !interval.End.Set {
		return offset, -1
	}
	return offset, int64(interval.End.Position) - offset
}

func (interval Interval) String() string {
	return fmt.Sprintf("[start:%v, end:%v]", interval.Start, interval.End)
}
