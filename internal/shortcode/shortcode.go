// Package shortcode generates and checks short codes.
package shortcode

import (
	"fmt"
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet is the set of characters generated codes are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// DefaultLength is the length of generated codes.
	DefaultLength = 6
)

var customCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IsValidCustom reports whether code may be used as a caller-supplied short code.
func IsValidCustom(code string) bool {
	return customCodeRe.MatchString(code)
}

// Generator produces random short codes of a fixed length.
type Generator struct {
	length int
}

// NewGenerator returns a Generator for codes of the given length.
// A non-positive length falls back to DefaultLength.
func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}

	return &Generator{length: length}
}

// Generate samples a code uniformly, with replacement, from Alphabet.
func (g *Generator) Generate() (string, error) {
	const op = "shortcode.Generator.Generate"

	code, err := gonanoid.Generate(Alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return code, nil
}
