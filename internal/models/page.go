package models

import (
	"time"

	"github.com/google/uuid"
)

// Page is a host page that can carry one search block.
type Page struct {
	ID         uuid.UUID  `json:"id"`
	SystemPath string     `json:"system_path"` // e.g. "/node/12"
	Alias      *string    `json:"alias"`       // e.g. "/scores"
	Title      string     `json:"title"`
	BlockID    *uuid.UUID `json:"block_id"`
	BlockSlug  *string    `json:"block_slug,omitempty"` // Read-only, joined from blocks
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CanonicalPath returns the alias when one is set, otherwise the system path.
func (p *Page) CanonicalPath() string {
	if p.Alias != nil && *p.Alias != "" {
		return *p.Alias
	}
	return p.SystemPath
}

// HasBlock returns true if a search block is placed on the page.
func (p *Page) HasBlock() bool {
	return p.BlockID != nil
}
