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

package search

import (
	"context"
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// 📦 resultEnvelope is the JSON shape returned by FindJSON.
type resultEnvelope struct {
	Results []string `json:"results"`
}

// 🔍 FindJSON runs a search and returns the results as a JSON envelope
// {"results": [...]}. A malformed extensions document is treated as no
// filter rather than an error.
func FindJSON(ctx context.Context, nameQuery string, extensionsJSON string, maxResults int) (string, error) {
	var exts []string
	if extensionsJSON != "" {
		if err := json.Unmarshal([]byte(extensionsJSON), &exts); err != nil {
			exts = nil
		}
	}

	results := Find(ctx, Query{
		Name:       nameQuery,
		Extensions: exts,
		MaxResults: maxResults,
	})

	out, err := json.Marshal(resultEnvelope{Results: results})
	if err != nil {
		return "", errors.Errorf("encoding results: %w", err)
	}
	return string(out), nil
}
