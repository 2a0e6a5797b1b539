package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Beclomethason/url-shortner-api/internal/entity"
)

// allocate claims a short code by inserting the record. The store's unique
// index decides conflicts, so there is no separate existence check.
func (uc *URLUseCase) allocate(ctx context.Context, originalURL, customCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.allocate"

	if customCode != "" {
		url, err := uc.urlRepo.Save(ctx, customCode, originalURL)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to claim custom code: %w", op, err)
		}

		return url, nil
	}

	for i := 0; i < uc.maxAttempts; i++ {
		shortCode, err := uc.codeGen.Generate()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		url, err := uc.urlRepo.Save(ctx, shortCode, originalURL)
		if err != nil {
			if errors.Is(err, entity.ErrShortCodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to claim short code: %w", op, err)
		}

		return url, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}
