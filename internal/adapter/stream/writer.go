// Package stream writes rendered SED documents to an io.Writer such as stdout.
package stream

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/couchcryptid/sedbuilder/internal/domain"
)

// Writer implements pipeline.BatchLoader over an io.Writer. Documents are
// written back to back, each terminated by exactly one newline.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (s *Writer) LoadBatch(ctx context.Context, events []domain.ExportEvent) error {
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := make([]byte, 0, len(e.Body)+1)
		line = append(line, bytes.TrimRight(e.Body, "\n")...)
		if _, err := s.w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write %s document: %w", e.Key, err)
		}
	}
	return nil
}
