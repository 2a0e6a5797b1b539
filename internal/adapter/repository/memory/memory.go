// Package memory provides a URL repository kept in process memory.
// It follows the same contract as the Postgres repository and is meant for
// local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Beclomethason/url-shortner-api/internal/entity"
)

type URLRepository struct {
	mu     sync.RWMutex
	urls   map[string]*entity.URL
	lastID int64
	now    func() time.Time
}

func NewURLRepository() *URLRepository {
	return &URLRepository{
		urls: make(map[string]*entity.URL),
		now:  time.Now,
	}
}

func (r *URLRepository) Save(ctx context.Context, shortCode, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.Save"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.urls[shortCode]; ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
	}

	r.lastID++
	url := &entity.URL{
		ID:          r.lastID,
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		CreatedAt:   r.now().UTC(),
	}
	r.urls[shortCode] = url

	copied := *url
	return &copied, nil
}

func (r *URLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.RetrieveByShortCode"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	url, ok := r.urls[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	copied := *url
	return &copied, nil
}

func (r *URLRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	const op = "adapter.repository.memory.URLRepository.IncrementClicks"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	url, ok := r.urls[shortCode]
	if !ok {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}
	url.Clicks++

	return nil
}

// Ping only fails once ctx is done; there is no connection to lose.
func (r *URLRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
