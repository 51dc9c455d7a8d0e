package searchbar

import "strings"

// RedirectTarget is the computed destination of a search submission.
type RedirectTarget struct {
	Destination string `json:"destination"`
	Absolute    bool   `json:"absolute"`
	Params      Params `json:"params"`
	URL         string `json:"url"`
}

// Builder turns submitted queries into redirect targets.
//
// Redirects built here are trusted: the destination and every parameter name
// come from the stored block configuration, and the visitor only contributes
// the search term value. The destination is therefore not checked against an
// open-redirect allowlist.
type Builder struct {
	urls URLGenerator
}

// NewBuilder creates a builder that delegates URL construction to urls.
func NewBuilder(urls URLGenerator) *Builder {
	return &Builder{urls: urls}
}

// Build computes the redirect target for q. rc supplies the current page's
// canonical path and is consulted when q has no default action or the default
// action is only a query or fragment.
// Errors wrap ErrDestinationUnresolvable.
func (b *Builder) Build(q SubmittedQuery, rc RequestContext) (*RedirectTarget, error) {
	t := &RedirectTarget{}
	switch {
	case q.DefaultAction == "":
		t.Destination = currentPath(rc)
	case strings.HasPrefix(q.DefaultAction, "?") || strings.HasPrefix(q.DefaultAction, "#"):
		// A query or fragment alone stays on the current page.
		t.Destination = currentPath(rc) + q.DefaultAction
	default:
		t.Destination = q.DefaultAction
		t.Absolute = b.urls.IsAbsolute(q.DefaultAction)
	}

	if q.SearchTerm != "" {
		param := q.SearchParam
		if param == "" {
			param = DefaultSearchParam
		}
		t.Params.Set(param, q.SearchTerm)
	}

	if q.SearchFacet != "" {
		// Resolve always fills SearchFacetName, so the fallback only applies
		// to queries assembled without it.
		name := q.SearchFacetName
		if name == "" {
			name = fallbackFacetName
		}
		t.Params.Set(FacetKey(name), q.SearchFacet)
	}

	if q.SearchCustomParam != "" && q.SearchCustomParamValue != "" {
		t.Params.Set(q.SearchCustomParam, q.SearchCustomParamValue)
	}

	var err error
	if t.Absolute {
		t.URL, err = b.urls.Absolute(t.Destination, t.Params)
	} else {
		t.URL, err = b.urls.Internal(t.Destination, t.Params)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// currentPath returns the canonical path from rc, or "/" when there is none.
func currentPath(rc RequestContext) string {
	if rc != nil && rc.CurrentPath() != "" {
		return rc.CurrentPath()
	}
	return "/"
}

// FacetKey returns the query key for filtering on the named facet.
func FacetKey(name string) string {
	return "f[" + name + "]"
}
