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

package agent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/walteh/filepilot/pkg/tabular"
	"gitlab.com/tozd/go/errors"
)

// 🪜 Rule pairs a recognizer for one shape of edit expression with the
// structural mutation it encodes. Small local models frequently emit edit
// code the harness cannot run directly; these rules recover the handful of
// shapes worth recognizing. The mutation is applied structurally — no form
// of code execution.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Apply   func(doc *tabular.Document, match []string) error
}

// value and selector fragments shared by the loc patterns
const (
	reColumn  = `['"](\w+)['"]`
	reValue   = `('[^']*'|"[^"]*"|-?\d+(?:\.\d+)?)`
	reCompare = `(==|!=|>=|<=|>|<)`
)

// fallbackRules is the fixed ladder, evaluated in order; the first pattern
// that matches wins. Deliberately narrow: whole-column constant assignment,
// row-selector assignment, row-selector scaling.
var fallbackRules = []Rule{
	{
		Name: "column_constant",
		Pattern: regexp.MustCompile(
			`df\[` + reColumn + `\]\s*=\s*` + reValue),
		Apply: func(doc *tabular.Document, m []string) error {
			doc.SetColumn(m[1], unquote(m[2]))
			return nil
		},
	},
	{
		Name: "loc_assign",
		Pattern: regexp.MustCompile(
			`df\.loc\[\s*df\[` + reColumn + `\]\s*` + reCompare + `\s*` + reValue +
				`\s*,\s*` + reColumn + `\s*\]\s*=\s*` + reValue),
		Apply: func(doc *tabular.Document, m []string) error {
			_, err := doc.SetWhere(m[1], tabular.CompareOp(m[2]), unquote(m[3]), m[4], unquote(m[5]))
			return err
		},
	},
	{
		Name: "loc_scale",
		Pattern: regexp.MustCompile(
			`df\.loc\[\s*df\[` + reColumn + `\]\s*` + reCompare + `\s*` + reValue +
				`\s*,\s*` + reColumn + `\s*\]\s*\*=\s*(-?\d+(?:\.\d+)?)`),
		Apply: func(doc *tabular.Document, m []string) error {
			factor, err := strconv.ParseFloat(m[5], 64)
			if err != nil {
				return errors.Errorf("parsing factor %q: %w", m[5], err)
			}
			_, err = doc.ScaleWhere(m[1], tabular.CompareOp(m[2]), unquote(m[3]), m[4], factor)
			return err
		},
	},
}

// 📋 Rules returns a copy of the fallback ladder in priority order.
func Rules() []Rule {
	return append([]Rule(nil), fallbackRules...)
}

// 🔍 ApplyFirstMatch scans text against the ladder and applies the first
// rule whose pattern matches structurally. Returns the rule name and whether
// any rule matched; a matched rule whose application fails returns its error.
func ApplyFirstMatch(doc *tabular.Document, text string) (string, bool, error) {
	for _, rule := range fallbackRules {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if err := rule.Apply(doc, m); err != nil {
			return rule.Name, true, errors.Errorf("applying rule %s: %w", rule.Name, err)
		}
		return rule.Name, true, nil
	}
	return "", false, nil
}

// unquote strips one layer of single or double quotes, if present.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// 🧾 firstExpression extracts the first plausible edit expression line from
// model output, stripping markdown code fences.
func firstExpression(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "`")
		line = strings.TrimSuffix(line, "`")
		if strings.HasPrefix(line, "df[") || strings.HasPrefix(line, "df.loc[") {
			return line
		}
	}
	return ""
}
