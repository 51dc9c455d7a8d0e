// Package searchbar turns a search block's configuration and a visitor's search
// term into a redirect target.
package searchbar

import "searchbar/internal/models"

// Defaults applied when a block leaves a value unset.
const (
	DefaultSearchParam = "query"
	DefaultFacetName   = "collection"
	DefaultTitle       = "Search"
	DefaultPlaceholder = "Search collection holdings..."
	fallbackFacetName  = "digital_collection"

	FormID          = "reusable_searchbar_search_form"
	SearchTermField = "searchbar_search"
)

// FormDefaults is the fully resolved form state for one render of a block.
// An empty DefaultAction means "redirect to the current page".
type FormDefaults struct {
	DefaultAction          string `json:"default_action"`
	SearchParam            string `json:"search_param"`
	SearchFacetName        string `json:"search_facet_name"`
	SearchFacet            string `json:"search_facet"`
	SearchCustomParam      string `json:"search_custom_param"`
	SearchCustomParamValue string `json:"search_custom_param_value"`
	SearchPlaceholder      string `json:"search_placeholder"`
	SearchTitle            string `json:"search_title"`
}

// Resolve normalizes a block configuration into form defaults.
// The custom parameter is only carried when both its name and value are set.
func Resolve(cfg models.BlockConfiguration) FormDefaults {
	d := FormDefaults{
		DefaultAction:     cfg.SearchPage,
		SearchParam:       cfg.SearchParam,
		SearchFacetName:   cfg.SearchFacetName,
		SearchFacet:       cfg.SearchFacet,
		SearchPlaceholder: cfg.SearchPlaceholder,
		SearchTitle:       cfg.SearchTitle,
	}
	if d.SearchParam == "" {
		d.SearchParam = DefaultSearchParam
	}
	if d.SearchFacetName == "" {
		d.SearchFacetName = DefaultFacetName
	}
	if cfg.SearchCustomParam != "" && cfg.SearchCustomParamValue != "" {
		d.SearchCustomParam = cfg.SearchCustomParam
		d.SearchCustomParamValue = cfg.SearchCustomParamValue
	}
	return d
}

// HasDefaultAction returns true if submissions go to a configured destination.
func (d FormDefaults) HasDefaultAction() bool {
	return d.DefaultAction != ""
}

// DisplayTitle returns the label shown above the search input.
func (d FormDefaults) DisplayTitle() string {
	if d.SearchTitle != "" {
		return d.SearchTitle
	}
	return DefaultTitle
}

// DisplayPlaceholder returns the placeholder text of the search input.
func (d FormDefaults) DisplayPlaceholder() string {
	if d.SearchPlaceholder != "" {
		return d.SearchPlaceholder
	}
	return DefaultPlaceholder
}

// SubmittedQuery is one form submission: the visitor's term plus the
// carried-through form defaults.
type SubmittedQuery struct {
	SearchTerm string
	FormDefaults
}

// Submit pairs the visitor's search term with the form defaults it was entered against.
func (d FormDefaults) Submit(searchTerm string) SubmittedQuery {
	return SubmittedQuery{SearchTerm: searchTerm, FormDefaults: d}
}
