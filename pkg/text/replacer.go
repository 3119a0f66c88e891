// Package text implements literal find/replace over text files with
// automatic backup.
package text

import (
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔄 ReplacementRule is one literal substring replacement.
type ReplacementRule struct {
	FromText string // substring to find
	ToText   string // replacement text
}

// 📦 ReplacementResult carries the outcome of applying rules to content.
type ReplacementResult struct {
	OriginalContent  []byte // content before any replacement
	ModifiedContent  []byte // content after all rules
	ReplacementCount int    // total occurrences replaced
	WasModified      bool   // whether any rule changed the content
}

// Replacer applies ordered replacement rules to a stream of text.
type Replacer struct{}

// 🏭 NewReplacer creates a new Replacer.
func NewReplacer() *Replacer {
	return &Replacer{}
}

// 🔄 ReplaceText applies each rule in order, literal and non-overlapping,
// left to right.
func (r *Replacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	currentContent := string(originalContent)
	for _, rule := range rules {
		if rule.FromText == "" {
			continue
		}

		newContent := strings.ReplaceAll(currentContent, rule.FromText, rule.ToText)
		if newContent != currentContent {
			result.WasModified = true
			result.ReplacementCount += strings.Count(currentContent, rule.FromText)
		}

		currentContent = newContent
	}

	result.ModifiedContent = []byte(currentContent)
	return result, nil
}

// ✅ ValidateRules checks that every rule has a non-empty FromText.
func (r *Replacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
	}
	return nil
}
