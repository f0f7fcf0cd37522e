package script

import (
	"path"
	"strings"

	"github.com/gittranslate/gittranslate/internal/gitrepo"
)

const (
	KindSimple   = "simple"
	KindDeepDive = "deep-dive"
)

var keyFiles = []string{
	"dockerfile",
	"package.json",
	"requirements.txt",
	"pom.xml",
	"build.gradle",
	".github/workflows",
}

// Complexity scores a codebase from its file tree and README and classifies
// it as a "simple" narration or a "deep-dive" dialogue. The score is capped
// at 10; 5 and above earns a deep-dive.
func Complexity(repo *gitrepo.Repository) (classification string, score int) {
	numFiles := len(repo.FileTree)
	switch {
	case numFiles > 1000:
		score += 4
	case numFiles > 500:
		score += 3
	case numFiles > 100:
		score += 2
	case numFiles > 20:
		score++
	}

	dirs := map[string]bool{}
	for _, f := range repo.FileTree {
		if d := path.Dir(f); d != "." {
			dirs[d] = true
		}
	}
	switch {
	case len(dirs) > 50:
		score += 2
	case len(dirs) > 10:
		score++
	}

	switch readmeLen := len(repo.Readme); {
	case readmeLen > 10000:
		score += 2
	case readmeLen > 2000:
		score++
	}

	for _, key := range keyFiles {
		for _, f := range repo.FileTree {
			if strings.Contains(strings.ToLower(f), key) {
				score++
				break
			}
		}
	}

	if score > 10 {
		score = 10
	}

	if score >= 5 {
		return KindDeepDive, score
	}
	return KindSimple, score
}
