package models

import (
	"time"

	"github.com/google/uuid"
)

// Destination health status constants
const (
	DestinationHealthy   = "healthy"
	DestinationUnhealthy = "unhealthy"
	DestinationUnknown   = "unknown"
)

// BlockConfiguration holds the administrator-set values of a search block.
// Every field is optional; an empty string means the value is absent.
type BlockConfiguration struct {
	SearchPage             string `json:"search_page" yaml:"search_page"`                             // destination path or absolute URL
	SearchParam            string `json:"search_param" yaml:"search_param"`                           // query key for the search term
	SearchFacetName        string `json:"search_facet_name" yaml:"search_facet_name"`                 // facet dimension, e.g. "collection"
	SearchFacet            string `json:"search_facet" yaml:"search_facet"`                           // facet value
	SearchCustomParam      string `json:"search_custom_param" yaml:"search_custom_param"`             // extra query key
	SearchCustomParamValue string `json:"search_custom_param_value" yaml:"search_custom_param_value"` // extra query value
	SearchPlaceholder      string `json:"search_placeholder" yaml:"search_placeholder"`
	SearchTitle            string `json:"search_title" yaml:"search_title"`
}

// Block is a placeable search form with its stored configuration.
type Block struct {
	ID    uuid.UUID `json:"id"`
	Slug  string    `json:"slug"`
	Label string    `json:"label"`
	BlockConfiguration

	DestinationStatus    string     `json:"destination_status"`
	DestinationCheckedAt *time.Time `json:"destination_checked_at,omitempty"`
	DestinationError     *string    `json:"destination_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasDestinationOverride returns true if the block redirects somewhere other than the current page.
func (b *Block) HasDestinationOverride() bool {
	return b.SearchPage != ""
}

// IsDestinationHealthy returns true if the last destination check succeeded.
func (b *Block) IsDestinationHealthy() bool {
	return b.DestinationStatus == DestinationHealthy
}
