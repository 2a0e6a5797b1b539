package http

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Beclomethason/url-shortner-api/internal/entity"
)

const statusError = "error"

// shortenRequest represents the structure for a request to shorten a URL.
type shortenRequest struct {
	URL        string `json:"url" validate:"required,weburl"`
	CustomCode string `json:"customCode,omitempty" validate:"omitempty,max=255,shortcode"`
}

// shortenResponse represents the structure for a response containing the short URL.
type shortenResponse struct {
	OriginalURL string `json:"originalUrl"`
	ShortURL    string `json:"shortUrl"`
}

func toShortenResponse(url *entity.URL, baseURL string) shortenResponse {
	return shortenResponse{
		OriginalURL: url.OriginalURL,
		ShortURL:    url.ShortURL(baseURL),
	}
}

// statsResponse represents the structure for a response containing URL statistics.
type statsResponse struct {
	OriginalURL string `json:"originalUrl"`
	ShortURL    string `json:"shortUrl"`
	Clicks      int64  `json:"clicks"`
}

func toStatsResponse(url *entity.URL, baseURL string) statsResponse {
	return statsResponse{
		OriginalURL: url.OriginalURL,
		ShortURL:    url.ShortURL(baseURL),
		Clicks:      url.Clicks,
	}
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	urlNotFoundResponse = errorResponse{
		Status:  statusError,
		Message: "short url not found",
	}

	customCodeInUseResponse = errorResponse{
		Status:  statusError,
		Message: "custom code is already in use",
	}

	storageUnavailableResponse = errorResponse{
		Status:  statusError,
		Message: "storage unavailable",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "weburl":
		return "invalid url"
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "shortcode":
		return "only letters, numbers, hyphens and underscores are allowed"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageFor(e),
			})
		}
	}

	return validationErrs
}

func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}
