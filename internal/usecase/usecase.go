// Package usecase implements the URL shortening business logic: short code
// allocation, redirects with click counting and statistics lookup.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Beclomethason/url-shortner-api/internal/entity"
)

// ErrMaxRetriesExceeded is returned when no free short code was found within the attempt limit.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")

// DefaultMaxAttempts is used when a non-positive attempt limit is configured.
const DefaultMaxAttempts = 10

type urlRepository interface {
	Save(ctx context.Context, shortCode, originalURL string) (*entity.URL, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	IncrementClicks(ctx context.Context, shortCode string) error
}

type codeGenerator interface {
	Generate() (string, error)
}

// URLUseCase orchestrates the shorten, redirect and stats operations.
type URLUseCase struct {
	urlRepo     urlRepository
	codeGen     codeGenerator
	maxAttempts int
}

// NewURLUseCase creates a URLUseCase. Random codes come from codeGen and at most
// maxAttempts of them are tried per shorten request.
func NewURLUseCase(urlRepo urlRepository, codeGen codeGenerator, maxAttempts int) *URLUseCase {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &URLUseCase{
		urlRepo:     urlRepo,
		codeGen:     codeGen,
		maxAttempts: maxAttempts,
	}
}

// ShortenURL stores originalURL under customCode, or under a generated code when
// customCode is empty. A taken custom code yields entity.ErrShortCodeExists.
func (uc *URLUseCase) ShortenURL(ctx context.Context, originalURL, customCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	url, err := uc.allocate(ctx, originalURL, customCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
	}

	return url, nil
}

// ResolveShortCode looks up the URL for shortCode and counts the click.
func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if err := uc.urlRepo.IncrementClicks(ctx, shortCode); err != nil {
		return nil, fmt.Errorf("%s: failed to count click: %w", op, err)
	}
	url.Clicks++

	return url, nil
}

// GetURLStats returns the URL for shortCode without touching its counter.
func (uc *URLUseCase) GetURLStats(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.GetURLStats"

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return url, nil
}
