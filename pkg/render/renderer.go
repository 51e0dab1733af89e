package render

import (
	"context"

	"github.com/goliatone/go-formsession/pkg/session"
)

// Renderer converts a session snapshot into a byte representation (HTML,
// plain text, etc.). Renderers only read the snapshot.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, snapshot session.Snapshot, options RenderOptions) ([]byte, error)
}
