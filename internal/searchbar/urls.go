package searchbar

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrDestinationUnresolvable is returned when no URL can be built for a destination.
var ErrDestinationUnresolvable = errors.New("search destination could not be resolved")

// RequestContext exposes the current page's canonical path.
type RequestContext interface {
	CurrentPath() string
}

// PathContext is a RequestContext for an already resolved canonical path.
type PathContext string

// CurrentPath returns the path itself.
func (p PathContext) CurrentPath() string {
	return string(p)
}

// URLGenerator builds site-relative and fully qualified URLs with query parameters.
type URLGenerator interface {
	IsAbsolute(destination string) bool
	Internal(path string, params Params) (string, error)
	Absolute(rawURL string, params Params) (string, error)
}

// SiteURLs generates URLs for a site mounted under BasePath.
type SiteURLs struct {
	BasePath string
}

// NewSiteURLs creates a URL generator. basePath "" or "/" means the site root.
func NewSiteURLs(basePath string) *SiteURLs {
	return &SiteURLs{BasePath: strings.TrimRight(basePath, "/")}
}

// IsAbsolute reports whether destination parses as a URL with a host component.
func (s *SiteURLs) IsAbsolute(destination string) bool {
	u, err := url.Parse(destination)
	return err == nil && u.Host != ""
}

// Internal builds a site-relative URL. path must start with "/", "?" or "#".
// Keys of a query already present on path follow params; params win on shared keys.
func (s *SiteURLs) Internal(path string, params Params) (string, error) {
	if path == "" || !strings.ContainsRune("/?#", rune(path[0])) {
		return "", fmt.Errorf("%w: internal path %q must start with a slash", ErrDestinationUnresolvable, path)
	}

	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDestinationUnresolvable, err)
	}
	if u.Scheme != "" || u.Host != "" {
		return "", fmt.Errorf("%w: %q is not an internal path", ErrDestinationUnresolvable, path)
	}

	query, err := mergeParams(u.RawQuery, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDestinationUnresolvable, err)
	}

	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}

	var b strings.Builder
	b.WriteString(s.BasePath)
	b.WriteString(p)
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.EscapedFragment())
	}
	return b.String(), nil
}

// Absolute builds a fully qualified URL from rawURL with params appended.
func (s *SiteURLs) Absolute(rawURL string, params Params) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDestinationUnresolvable, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrDestinationUnresolvable, rawURL)
	}

	query, err := mergeParams(u.RawQuery, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDestinationUnresolvable, err)
	}
	u.RawQuery = query.Encode()
	u.ForceQuery = false
	return u.String(), nil
}

// mergeParams puts params first and appends the keys of rawQuery that params
// does not already set.
func mergeParams(rawQuery string, params Params) (Params, error) {
	existing, err := parseParams(rawQuery)
	if err != nil {
		return nil, err
	}
	merged := make(Params, 0, len(params)+len(existing))
	merged = append(merged, params...)
	for _, kv := range existing {
		if _, ok := merged.Get(kv.Key); !ok {
			merged = append(merged, kv)
		}
	}
	return merged, nil
}
