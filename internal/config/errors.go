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

package config

import "errors"

// Process exit codes used when properties cannot be loaded.
const (
	ExitFailure         = 1
	ExitInvalidProperty = 2
	ExitFileNotFound    = 3
	ExitParse           = 4
)

// Error is returned when properties cannot be loaded.  Code is the exit code
// a server should terminate with.
type Error struct {
	Code    int
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

// ExitCode returns the process exit code appropriate for err.
func ExitCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ExitFailure
}
