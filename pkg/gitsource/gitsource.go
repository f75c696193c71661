// Package gitsource resolves git package references into a canonical
// descriptor. Two input forms are accepted: a provider alias such as
// "gh/owner/repo[/path/in/repo]", and an absolute repository URL, possibly
// pointing at a subdirectory on a branch or tag (GitHub "tree"/"blob"
// URLs, GitLab "/-/tree/" URLs).
package gitsource

import (
	"net/url"
	"strings"

	"github.com/jassielof/typm/pkg/errors"
	"github.com/jassielof/typm/pkg/logging"
)

// aliasHosts maps provider shorthand aliases to their hosts.
var aliasHosts = map[string]string{
	"gh":        "github.com",
	"github":    "github.com",
	"gl":        "gitlab.com",
	"gitlab":    "gitlab.com",
	"bb":        "bitbucket.org",
	"bitbucket": "bitbucket.org",
}

// Descriptor is the resolved form of a git package source.
type Descriptor struct {
	// CloneURL is always https://<host>/<owner>/<repo>.git
	CloneURL string

	// Ref is the branch or tag to clone; empty means the default branch
	Ref string

	// PathInRepo is the slash-separated path to the package directory
	// inside the repository; empty means the repository root
	PathInRepo string

	// ProviderHost is the hosting provider, e.g. "github.com"
	ProviderHost string

	// Owner is the user or organization that owns the repository
	Owner string
}

// Resolve parses source as an alias or an absolute URL and returns the
// canonical descriptor. It fails with INVALID_SOURCE when the string
// matches neither form.
func Resolve(source string) (Descriptor, error) {
	logger := logging.GetLogger("gitsource")

	if desc, ok := resolveAlias(source); ok {
		logger.Debug().
			Str("source", source).
			Str("cloneURL", desc.CloneURL).
			Str("pathInRepo", desc.PathInRepo).
			Msg("Resolved alias source")
		return desc, nil
	}

	desc, err := resolveURL(source)
	if err != nil {
		return Descriptor{}, err
	}

	logger.Debug().
		Str("source", source).
		Str("cloneURL", desc.CloneURL).
		Str("ref", desc.Ref).
		Str("pathInRepo", desc.PathInRepo).
		Msg("Resolved URL source")
	return desc, nil
}

// resolveAlias handles the "gh/owner/repo[/path]" shorthand. It reports
// ok=false when the string does not look like an alias, so that Resolve
// can fall through to URL parsing.
func resolveAlias(source string) (Descriptor, bool) {
	parts := strings.Split(source, "/")
	if len(parts) < 3 {
		return Descriptor{}, false
	}

	host := aliasHosts[strings.ToLower(parts[0])]
	owner := parts[1]
	repoAndPath := strings.Join(parts[2:], "/")
	if host == "" || owner == "" || repoAndPath == "" {
		return Descriptor{}, false
	}

	repo, pathInRepo := splitFirst(repoAndPath)
	if repo == "" {
		return Descriptor{}, false
	}

	desc := Descriptor{
		CloneURL:     cloneURL(host, owner, repo),
		PathInRepo:   pathInRepo,
		ProviderHost: host,
		Owner:        owner,
	}
	if !validPathInRepo(desc.PathInRepo) {
		return Descriptor{}, false
	}
	return desc, true
}

// resolveURL handles absolute repository URLs for the supported providers.
func resolveURL(source string) (Descriptor, error) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Descriptor{}, errors.Newf(errors.ErrInvalidSource,
			"invalid git source URL or alias: %s", source)
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	segs := splitSegments(u.Path)

	var desc Descriptor
	switch host {
	case "github.com":
		if len(segs) < 2 {
			break
		}
		owner, repo := segs[0], strings.TrimSuffix(segs[1], ".git")
		ref := ""
		var pathParts []string
		if len(segs) > 3 && (segs[2] == "tree" || segs[2] == "blob") {
			ref = segs[3]
			pathParts = segs[4:]
		} else if len(segs) > 2 {
			pathParts = segs[2:]
		}
		desc = Descriptor{
			CloneURL:     cloneURL(host, owner, repo),
			Ref:          ref,
			PathInRepo:   strings.Join(pathParts, "/"),
			ProviderHost: host,
			Owner:        owner,
		}

	case "gitlab.com":
		if len(segs) < 2 {
			break
		}
		owner, repo := segs[0], strings.TrimSuffix(segs[1], ".git")
		ref := ""
		var pathParts []string
		// GitLab separates the repository path from the view with "/-/".
		if len(segs) > 4 && segs[2] == "-" && (segs[3] == "tree" || segs[3] == "blob") {
			ref = segs[4]
			pathParts = segs[5:]
		} else if len(segs) > 2 {
			pathParts = segs[2:]
		}
		desc = Descriptor{
			CloneURL:     cloneURL(host, owner, repo),
			Ref:          ref,
			PathInRepo:   strings.Join(pathParts, "/"),
			ProviderHost: host,
			Owner:        owner,
		}

	case "bitbucket.org":
		if len(segs) < 2 {
			break
		}
		// Bitbucket has no tree/blob ref syntax; everything after the
		// repository is treated as an in-repo path.
		owner, repo := segs[0], strings.TrimSuffix(segs[1], ".git")
		var pathParts []string
		if len(segs) > 2 {
			pathParts = segs[2:]
		}
		desc = Descriptor{
			CloneURL:     cloneURL(host, owner, repo),
			PathInRepo:   strings.Join(pathParts, "/"),
			ProviderHost: host,
			Owner:        owner,
		}
	}

	if desc.CloneURL == "" || !validPathInRepo(desc.PathInRepo) {
		return Descriptor{}, errors.Newf(errors.ErrInvalidSource,
			"unsupported git URL format or provider (or invalid alias): %s", source)
	}

	return desc, nil
}

// cloneURL builds the canonical https clone URL for a repository.
func cloneURL(host, owner, repo string) string {
	return "https://" + host + "/" + owner + "/" + repo + ".git"
}

// splitFirst splits s at the first slash into head and tail.
func splitFirst(s string) (string, string) {
	if i := strings.Index(s, "/"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// splitSegments returns the non-empty slash-separated segments of a URL path.
func splitSegments(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// validPathInRepo rejects in-repo paths that climb out of the clone.
func validPathInRepo(path string) bool {
	if path == "" {
		return true
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}
