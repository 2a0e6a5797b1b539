// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a shortened URL, along with its
// click statistics and the errors shared by the use case and storage layers.
package entity

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrShortCodeExists is returned when attempting to create a URL with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrURLNotFound is returned when a URL with the specified short code cannot be found.
	ErrURLNotFound = errors.New("url not found")
)

// RedirectPrefix is the path segment under which short codes are served.
const RedirectPrefix = "/r/"

// URL represents a shortened URL.
type URL struct {
	ID          int64     // ID is the unique identifier of the URL in the store.
	ShortCode   string    // ShortCode is the code used to shorten the original URL.
	OriginalURL string    // OriginalURL is the full URL that the short code resolves to.
	URLStats              // URLStats contains statistics about the URL.
	CreatedAt   time.Time // CreatedAt is the timestamp when the URL was created.
}

// URLStats contains statistics related to a shortened URL.
type URLStats struct {
	Clicks int64 // Clicks is the number of redirects served for the short code.
}

// ShortURL composes the externally visible short URL for the given base URL.
func (u *URL) ShortURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + RedirectPrefix + u.ShortCode
}
