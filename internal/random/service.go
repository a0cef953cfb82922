package random

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
)

// Repository records every number handed out.
type Repository interface {
	InsertNumber(ctx context.Context, n *domain.RandomNumber) error
}

// Service draws numbers in [0, 100) from a source seeded once per service and
// persists each draw as an audit record.
type Service struct {
	repo Repository

	mu  sync.Mutex
	rng *rand.Rand
}

func NewService(repo Repository, seed int64) *Service {
	return &Service{
		repo: repo,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (s *Service) GetRandom(ctx context.Context) (int, error) {
	s.mu.Lock()
	n := s.rng.Intn(100)
	s.mu.Unlock()

	rec := domain.RandomNumber{Number: n}
	if err := s.repo.InsertNumber(ctx, &rec); err != nil {
		return 0, fmt.Errorf("insert number: %w", err)
	}
	return n, nil
}
