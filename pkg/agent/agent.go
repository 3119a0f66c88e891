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

// Package agent implements the natural-language tabular-edit pipeline: an
// opaque edit capability, a fallback rule ladder for when the capability
// produces output it cannot apply itself, and the load/delegate/persist
// state machine that ties them together.
package agent

import (
	"context"
	"fmt"

	"github.com/walteh/filepilot/pkg/tabular"
)

// 🔌 Agent is the opaque natural-language tabular-edit capability. Edit
// submits the instruction together with the in-memory document and may
// mutate the document in place. The raw model output is returned so callers
// can attempt their own recovery when the document was left untouched.
type Agent interface {
	// Name identifies the agent (e.g. "ollama/llama3.2:1b")
	Name() string
	// Edit applies the instruction to doc, returning the raw model output
	Edit(ctx context.Context, instruction string, doc *tabular.Document) (string, error)
}

// ⚠️ EditError is returned when the agent's underlying reasoning step fails
// in a way that may still carry a usable edit expression in its raw output.
type EditError struct {
	Raw string // raw model output or error text, scanned by the fallback ladder
	Err error  // the underlying failure
}

func (e *EditError) Error() string {
	return fmt.Sprintf("agent edit failed: %v", e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}
