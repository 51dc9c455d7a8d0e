package models

import "time"

// Search redirect destination kinds
const (
	DestinationInternal     = "internal"
	DestinationAbsolute     = "absolute"
	DestinationUnresolvable = "unresolvable"
)

// SearchRedirect is a per-block redirect count by destination kind.
type SearchRedirect struct {
	BlockSlug   string
	Destination string
	Count       int64
	LastSeenAt  time.Time
}

// ResolveResponse contains a computed redirect target for the JSON API.
type ResolveResponse struct {
	Block    string `json:"block"`
	Page     string `json:"page"`
	URL      string `json:"url"`
	Absolute bool   `json:"absolute"`
}
