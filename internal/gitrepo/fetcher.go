package gitrepo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v61/github"
	ignore "github.com/sabhiram/go-gitignore"
)

// Repository is the slice of GitHub metadata the script generator needs.
type Repository struct {
	FullName      string   `json:"repo_name"`
	HTMLURL       string   `json:"repo_url"`
	CloneURL      string   `json:"clone_url"`
	DefaultBranch string   `json:"default_branch"`
	Readme        string   `json:"readme"`
	FileTree      []string `json:"file_tree"`
}

// Fetcher loads repository metadata from the GitHub API.
type Fetcher struct {
	client *github.Client
}

// NewFetcher creates a Fetcher. An empty token falls back to unauthenticated
// access, which is enough for public repositories at low request rates.
func NewFetcher(token string) *Fetcher {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Fetcher{client: client}
}

// ParseRepoURL extracts owner and name from a GitHub repository URL.
func ParseRepoURL(repoURL string) (owner, name string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(repoURL), ".git")
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		if strings.HasPrefix(trimmed, prefix) {
			trimmed = strings.TrimPrefix(trimmed, prefix)
			parts := strings.Split(strings.Trim(trimmed, "/"), "/")
			if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
				return "", "", fmt.Errorf("invalid repository URL %q", repoURL)
			}
			return parts[0], parts[1], nil
		}
	}
	return "", "", fmt.Errorf("not a GitHub repository URL: %q", repoURL)
}

// Fetch returns the repository's metadata, README, and file tree. The tree
// lists blobs only and is filtered through the repo's .gitignore when one
// exists.
func (f *Fetcher) Fetch(ctx context.Context, repoURL string) (*Repository, error) {
	owner, name, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	repo, _, err := f.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("get repository %s/%s: %w", owner, name, err)
	}
	branch := repo.GetDefaultBranch()

	readme := ""
	if rm, _, err := f.client.Repositories.GetReadme(ctx, owner, name, nil); err == nil {
		if content, err := rm.GetContent(); err == nil {
			readme = content
		}
	} else {
		slog.Warn("readme not found", "repo", repo.GetFullName(), "error", err)
	}

	tree, _, err := f.client.Git.GetTree(ctx, owner, name, branch, true)
	if err != nil {
		return nil, fmt.Errorf("get tree for %s/%s@%s: %w", owner, name, branch, err)
	}

	var files []string
	for _, entry := range tree.Entries {
		if entry.GetType() == "blob" {
			files = append(files, entry.GetPath())
		}
	}

	files = f.filterIgnored(ctx, owner, name, branch, files)

	return &Repository{
		FullName:      repo.GetFullName(),
		HTMLURL:       repo.GetHTMLURL(),
		CloneURL:      repo.GetCloneURL(),
		DefaultBranch: branch,
		Readme:        readme,
		FileTree:      files,
	}, nil
}

func (f *Fetcher) filterIgnored(ctx context.Context, owner, name, branch string, files []string) []string {
	content, _, _, err := f.client.Repositories.GetContents(ctx, owner, name, ".gitignore",
		&github.RepositoryContentGetOptions{Ref: branch})
	if err != nil || content == nil {
		return files
	}
	raw, err := content.GetContent()
	if err != nil {
		return files
	}

	return FilterIgnored(files, strings.Split(raw, "\n"))
}

// FilterIgnored drops every path matched by the given .gitignore lines.
func FilterIgnored(files, ignoreLines []string) []string {
	spec := ignore.CompileIgnoreLines(ignoreLines...)
	kept := make([]string, 0, len(files))
	for _, f := range files {
		if !spec.MatchesPath(f) {
			kept = append(kept, f)
		}
	}
	return kept
}
