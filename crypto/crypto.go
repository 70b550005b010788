// Package crypto contains helpers for generating secrets.
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// RandomData returns a slice of the specified size containing random data.
func RandomData(size int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("size must be positive")
	}

	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return nil, fmt.Errorf("failed generating random data: %w", err)
	}

	return data, nil
}

// RandomKey returns size random bytes encoded as base58, which is safe to use
// in configuration files and environment variables without quoting.
func RandomKey(size int) (string, error) {
	data, err := RandomData(size)
	if err != nil {
		return "", err
	}

	return base58.Encode(data), nil
}
