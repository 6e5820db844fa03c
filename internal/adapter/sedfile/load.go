// Package sedfile loads SED Builder responses saved to disk.
package sedfile

import (
	"fmt"
	"os"

	"github.com/couchcryptid/sedbuilder/internal/domain"
)

// Load reads a getData response from a JSON file and validates it the same
// way as a live response. A missing or unreadable file yields an error
// wrapping *os.PathError.
func Load(path string) (*domain.Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load sed file: %w", err)
	}
	defer f.Close()

	resp, err := domain.DecodeResponse(f)
	if err != nil {
		return nil, fmt.Errorf("load sed file %s: %w", path, err)
	}
	return resp, nil
}
