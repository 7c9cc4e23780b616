package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/parasports/idcard/internal/models"
	"github.com/parasports/idcard/internal/storage"
)

// FilePlayerService keeps the registry in memory and mirrors every change
// to a JSON file. It stands in for Mongo in development and tests.
type FilePlayerService struct {
	mu      sync.RWMutex
	store   *storage.JSONStore
	players map[string]*models.Player // playerID -> player
	nextSeq int
}

func NewFilePlayerService(dataDir string) (*FilePlayerService, error) {
	store, err := storage.NewJSONStore(dataDir, "players.json")
	if err != nil {
		return nil, err
	}

	s := &FilePlayerService{
		store:   store,
		players: make(map[string]*models.Player),
		nextSeq: 1,
	}

	var saved []*models.Player
	if err := store.Load(&saved); err != nil {
		return nil, err
	}
	for _, p := range saved {
		s.players[p.PlayerID] = p
	}
	s.nextSeq = len(saved) + 1

	return s, nil
}

func (s *FilePlayerService) Create(ctx context.Context, p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.PlayerID == "" {
		p.PlayerID = s.issuePlayerID()
	}
	if _, exists := s.players[p.PlayerID]; exists {
		return ErrPlayerIDExists
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.players[p.PlayerID] = p

	return s.persist()
}

// issuePlayerID mints the next sequential registry identifier. Caller
// holds the lock.
func (s *FilePlayerService) issuePlayerID() string {
	for {
		id := fmt.Sprintf("GJ%04d", s.nextSeq)
		s.nextSeq++
		if _, taken := s.players[id]; !taken {
			return id
		}
	}
}

func (s *FilePlayerService) GetByPlayerID(ctx context.Context, playerID string) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.players[playerID]
	if !exists {
		return nil, ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *FilePlayerService) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.players {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrPlayerNotFound
}

func (s *FilePlayerService) FindByIDAndEmail(ctx context.Context, playerID, email string) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.players[playerID]
	if !exists || p.Email != email {
		return nil, ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *FilePlayerService) List(ctx context.Context, limit int) ([]*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > 500 {
		limit = 500
	}

	players := make([]*models.Player, 0, len(s.players))
	for _, p := range s.players {
		cp := *p
		players = append(players, &cp)
		if len(players) >= limit {
			break
		}
	}
	return players, nil
}

func (s *FilePlayerService) Update(ctx context.Context, playerID string, req *models.UpdatePlayerRequest) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.players[playerID]
	if !exists {
		return nil, ErrPlayerNotFound
	}
	if err := applyPlayerUpdate(p, req); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()

	if err := s.persist(); err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (s *FilePlayerService) Delete(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[playerID]; !exists {
		return ErrPlayerNotFound
	}
	delete(s.players, playerID)
	return s.persist()
}

func (s *FilePlayerService) SetCardPath(ctx context.Context, playerID, cardPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.players[playerID]
	if !exists {
		return ErrPlayerNotFound
	}
	p.IDCardGenerated = true
	p.IDCardPath = cardPath
	p.UpdatedAt = time.Now()
	return s.persist()
}

// persist snapshots the registry to disk. Caller holds the lock.
func (s *FilePlayerService) persist() error {
	players := make([]*models.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	return s.store.Save(players)
}
