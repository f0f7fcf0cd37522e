package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/gittranslate/gittranslate/internal/llm"
)

// Translate renders a script into the target language, preserving the
// Host:/Expert: speaker labels so utterance parsing still works afterwards.
// English (or an empty language) is a no-op.
func (s *Service) Translate(ctx context.Context, text, language string) (string, error) {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" || lang == "english" || lang == "en" {
		return text, nil
	}

	prompt := fmt.Sprintf(`Translate the following podcast script into %s.

Rules:
- Keep any "Host:" and "Expert:" speaker labels exactly as they are, untranslated, at the start of their lines.
- Translate naturally for a spoken podcast, not word for word.
- Keep technical terms, project names, and code identifiers in their original form.
- Output only the translated script, nothing else.

Script:
%s`, language, text)

	resp, err := s.gw.Complete(ctx, llm.Request{
		Model:       s.model,
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   4096,
	})
	if err != nil {
		return "", fmt.Errorf("translate script to %s: %w", language, err)
	}

	return strings.TrimSpace(resp.Content), nil
}
