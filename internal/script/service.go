package script

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gittranslate/gittranslate/internal/gitrepo"
	"github.com/gittranslate/gittranslate/internal/llm"
)

// Script is a generated podcast script plus how it was produced.
type Script struct {
	Text            string `json:"script"`
	Kind            string `json:"summary_type"`
	ComplexityScore int    `json:"complexity_score"`
	WordCount       int    `json:"word_count"`
}

// Service generates and translates podcast scripts with an LLM.
type Service struct {
	gw    llm.Gateway
	model string
}

func NewService(gw llm.Gateway, model string) *Service {
	return &Service{gw: gw, model: model}
}

// Generate classifies the repository and produces either a single-narrator
// summary or a Host/Expert dialogue script.
func (s *Service) Generate(ctx context.Context, repo *gitrepo.Repository) (*Script, error) {
	if repo.FullName == "" {
		return nil, fmt.Errorf("repository metadata missing full name")
	}

	kind, score := Complexity(repo)
	slog.Info("codebase analyzed",
		"repo", repo.FullName,
		"files", len(repo.FileTree),
		"score", score,
		"classification", kind,
	)

	resp, err := s.gw.Complete(ctx, llm.Request{
		Model:       s.model,
		Prompt:      buildPrompt(repo, kind),
		Temperature: 0.6,
		MaxTokens:   4096,
	})
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}

	text := strings.TrimSpace(resp.Content)
	return &Script{
		Text:            text,
		Kind:            kind,
		ComplexityScore: score,
		WordCount:       len(strings.Fields(text)),
	}, nil
}

func buildPrompt(repo *gitrepo.Repository, kind string) string {
	readme := repo.Readme
	if readme == "" {
		readme = "No README content was provided."
	}
	if len(readme) > 4000 {
		readme = readme[:4000]
	}
	tree := strings.Join(repo.FileTree, "\n")
	if len(tree) > 3000 {
		tree = tree[:3000]
	}

	contextInfo := fmt.Sprintf(`Here is the context for the GitHub repository %q:

**README Summary:**
%s

**File Structure Overview:**
<file_tree>
%s
</file_tree>`, repo.FullName, readme, tree)

	if kind == KindSimple {
		return fmt.Sprintf(`You are a tech journalist writing a summary for a tech blog.
Based on the provided context below, write a clear, engaging, and concise summary of the GitHub repository.
The summary should be a single, well-written paragraph of about 300-400 words.

Focus on:
1. What is the primary purpose of this project? What problem does it solve?
2. What are its key features? What makes it stand out?
3. Who is the target audience?
4. What is its potential impact?

%s

Please generate the summary now.`, contextInfo)
	}

	return fmt.Sprintf(`You are a scriptwriter for a popular tech podcast.
Your task is to create an engaging, conversational, deep-dive podcast script about the GitHub repository detailed below.
The script should be a dialogue between a "Host" and an "Expert".

**Instructions:**
- Format: Start each line with either "Host:" or "Expert:".
- Content: The dialogue should flow naturally, explaining the project's technical details, use cases, and significance.
- Tone: Make it informative but also accessible and engaging for a technical audience.
- Length: The final script should be substantial enough for a 5-7 minute segment (approx. 800-1200 words).

**Topics to Cover:**
1. Introduction: The Host introduces the project and its core idea.
2. Technical Deep-Dive: The Expert explains the architecture, key technologies used, and interesting implementation details found in the file structure.
3. Use Cases: Both discuss practical applications and who would benefit from this repo.
4. Conclusion: Summarize the project's importance and where listeners can learn more.

%s

Please generate the podcast script now.`, contextInfo)
}

// ParseUtterances splits a script into the ordered speaker turns fed to the
// synthesis pipeline. Dialogue scripts yield one utterance per Host/Expert
// turn with the speaker labels stripped; narration scripts yield one
// utterance per paragraph.
func ParseUtterances(text string) []string {
	lines := strings.Split(text, "\n")

	var turns []string
	dialogue := false
	current := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Host:"), strings.HasPrefix(trimmed, "Expert:"):
			dialogue = true
			if current != "" {
				turns = append(turns, current)
			}
			_, turn, _ := strings.Cut(trimmed, ":")
			current = strings.TrimSpace(turn)
		case trimmed == "":
			continue
		default:
			if current == "" {
				current = trimmed
			} else {
				current += " " + trimmed
			}
		}
	}
	if current != "" {
		turns = append(turns, current)
	}

	if dialogue {
		return turns
	}

	// Narration: one utterance per paragraph.
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paragraphs = append(paragraphs, strings.Join(strings.Fields(trimmed), " "))
		}
	}
	return paragraphs
}
