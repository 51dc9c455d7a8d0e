// Package testutil provides in-memory fakes of the persistence layer for handler tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"searchbar/internal/db"
	"searchbar/internal/models"
)

// MemoryStore is an in-memory stand-in for *db.DB.
// It returns the same sentinel errors as the database layer.
type MemoryStore struct {
	mu      sync.Mutex
	blocks  map[uuid.UUID]*models.Block
	pages   map[uuid.UUID]*models.Page
	PingErr error

	// BlockLookups counts GetBlockBySlug calls.
	BlockLookups int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blocks: make(map[uuid.UUID]*models.Block),
		pages:  make(map[uuid.UUID]*models.Page),
	}
}

// AddBlock stores a block with the given slug and configuration and returns it.
func (s *MemoryStore) AddBlock(slug string, cfg models.BlockConfiguration) *models.Block {
	b := &models.Block{Slug: slug, Label: slug, BlockConfiguration: cfg}
	if err := s.CreateBlock(context.Background(), b); err != nil {
		panic(err)
	}
	return b
}

// AddPage stores a page at systemPath with an optional alias and block.
func (s *MemoryStore) AddPage(systemPath, alias string, block *models.Block) *models.Page {
	p := &models.Page{SystemPath: systemPath, Title: systemPath}
	if alias != "" {
		p.Alias = &alias
	}
	if block != nil {
		p.BlockID = &block.ID
	}
	if err := s.CreatePage(context.Background(), p); err != nil {
		panic(err)
	}
	return p
}

func (s *MemoryStore) CreateBlock(_ context.Context, b *models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.blocks {
		if existing.Slug == b.Slug {
			return db.ErrDuplicateSlug
		}
	}
	b.ID = uuid.New()
	b.DestinationStatus = models.DestinationUnknown
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	s.blocks[b.ID] = &stored
	return nil
}

func (s *MemoryStore) GetBlockByID(_ context.Context, id uuid.UUID) (*models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blocks[id]
	if !ok {
		return nil, db.ErrBlockNotFound
	}
	out := *b
	return &out, nil
}

func (s *MemoryStore) GetBlockBySlug(_ context.Context, slug string) (*models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BlockLookups++
	for _, b := range s.blocks {
		if b.Slug == slug {
			out := *b
			return &out, nil
		}
	}
	return nil, db.ErrBlockNotFound
}

func (s *MemoryStore) ListBlocks(context.Context) ([]models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Block, 0, len(s.blocks))
	for _, b := range s.blocks {
		out = append(out, *b)
	}
	return out, nil
}

func (s *MemoryStore) UpdateBlockConfiguration(_ context.Context, id uuid.UUID, cfg models.BlockConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blocks[id]
	if !ok {
		return db.ErrBlockNotFound
	}
	b.BlockConfiguration = cfg
	b.DestinationStatus = models.DestinationUnknown
	b.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) DeleteBlock(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blocks[id]; !ok {
		return db.ErrBlockNotFound
	}
	delete(s.blocks, id)
	for _, p := range s.pages {
		if p.BlockID != nil && *p.BlockID == id {
			p.BlockID = nil
		}
	}
	return nil
}

// UpsertBlock updates the block with b's slug in place, or creates it.
func (s *MemoryStore) UpsertBlock(ctx context.Context, b *models.Block) error {
	s.mu.Lock()
	for _, existing := range s.blocks {
		if existing.Slug == b.Slug {
			existing.Label = b.Label
			existing.BlockConfiguration = b.BlockConfiguration
			existing.UpdatedAt = time.Now()
			b.ID = existing.ID
			s.mu.Unlock()
			return nil
		}
	}
	s.mu.Unlock()
	return s.CreateBlock(ctx, b)
}

// UpsertPage updates the page at p's system path in place, or creates it.
func (s *MemoryStore) UpsertPage(ctx context.Context, p *models.Page) error {
	s.mu.Lock()
	for _, existing := range s.pages {
		if existing.SystemPath == p.SystemPath {
			existing.Alias = p.Alias
			existing.Title = p.Title
			existing.BlockID = p.BlockID
			existing.UpdatedAt = time.Now()
			p.ID = existing.ID
			s.mu.Unlock()
			return nil
		}
	}
	s.mu.Unlock()
	return s.CreatePage(ctx, p)
}

func (s *MemoryStore) CreatePage(_ context.Context, p *models.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.pages {
		if existing.SystemPath == p.SystemPath ||
			(p.Alias != nil && existing.Alias != nil && *existing.Alias == *p.Alias) {
			return db.ErrDuplicatePath
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	s.pages[p.ID] = &stored
	return nil
}

// withSlug copies p and fills BlockSlug the way the database join does.
func (s *MemoryStore) withSlug(p *models.Page) models.Page {
	out := *p
	out.BlockSlug = nil
	if p.BlockID != nil {
		if b, ok := s.blocks[*p.BlockID]; ok {
			slug := b.Slug
			out.BlockSlug = &slug
		}
	}
	return out
}

func (s *MemoryStore) GetPageByPath(_ context.Context, path string) (*models.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var match *models.Page
	for _, p := range s.pages {
		if p.Alias != nil && *p.Alias == path {
			out := s.withSlug(p)
			return &out, nil
		}
		if p.SystemPath == path {
			match = p
		}
	}
	if match == nil {
		return nil, db.ErrPageNotFound
	}
	out := s.withSlug(match)
	return &out, nil
}

func (s *MemoryStore) ListPages(context.Context) ([]models.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Page, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, s.withSlug(p))
	}
	return out, nil
}

func (s *MemoryStore) DeletePage(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pages[id]; !ok {
		return db.ErrPageNotFound
	}
	delete(s.pages, id)
	return nil
}

// Ping returns PingErr.
func (s *MemoryStore) Ping(context.Context) error {
	return s.PingErr
}

// MemoryStorage is an in-memory fiber storage backend that ignores expiry.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *MemoryStorage) Set(key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
