package pipeline

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/sedbuilder/internal/domain"
	"github.com/couchcryptid/sedbuilder/internal/render"
)

// DocumentTransformer implements Transformer with a fixed output format.
type DocumentTransformer struct {
	renderer *render.Renderer
	format   render.Format
	opts     render.Options
	clock    clockwork.Clock
}

// NewTransformer creates a DocumentTransformer. opts must carry Jetset
// parameters when format is render.FormatJetset.
func NewTransformer(r *render.Renderer, format render.Format, opts render.Options, clock clockwork.Clock) *DocumentTransformer {
	return &DocumentTransformer{
		renderer: r,
		format:   format,
		opts:     opts,
		clock:    clock,
	}
}

func (t *DocumentTransformer) Transform(_ context.Context, key string, resp *domain.Response) (domain.ExportEvent, error) {
	doc, err := t.renderer.Render(resp, t.format, t.opts)
	if err != nil {
		return domain.ExportEvent{}, err
	}
	return domain.ExportEvent{
		Key:             key,
		Format:          string(doc.Format),
		ContentType:     doc.ContentType,
		Body:            doc.Body,
		ExportedAt:      t.clock.Now().UTC(),
		Measurements:    doc.Stats.Measurements,
		WarningsDropped: doc.Stats.WarningsDropped,
	}, nil
}
