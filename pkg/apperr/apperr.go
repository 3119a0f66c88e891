// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package apperr defines the error kinds the menu layer branches on.
package apperr

import (
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Base errors for each failure kind. Wrap with
// errors.Errorf("%w: ...", apperr.ErrInput) so callers can branch with
// errors.Is instead of matching message text.
var (
	// ErrInput marks bad user input: missing required field, unsupported
	// file extension, invalid selection. No partial effect.
	ErrInput = errors.Base("invalid input")

	// ErrIO marks local filesystem failures: missing file, decode failure,
	// permission denial.
	ErrIO = errors.Base("io failure")

	// ErrAgent marks failures of the natural-language edit agent after the
	// fallback ladder has been exhausted.
	ErrAgent = errors.Base("agent failure")

	// ErrRemote marks remote repository API failures.
	ErrRemote = errors.Base("remote failure")
)

// 🔍 Kind returns a short label for the taxonomy kind of err.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInput):
		return "input"
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrAgent):
		return "agent"
	case errors.Is(err, ErrRemote):
		return "remote"
	default:
		return "unknown"
	}
}
