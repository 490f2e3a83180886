// SPDX-License-Identifier: EPL-2.0

package scoreport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ik5/scoreport/audio"
	"github.com/ik5/scoreport/composition"
)

// Renderer produces the complete audio of a composition. d is the length
// the exporter wants: the composition duration plus the render tail.
// Render must return only once the whole buffer is ready.
type Renderer interface {
	Render(ctx context.Context, c *composition.Composition, d time.Duration) (*audio.Buffer, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, c *composition.Composition, d time.Duration) (*audio.Buffer, error)

func (f RendererFunc) Render(ctx context.Context, c *composition.Composition, d time.Duration) (*audio.Buffer, error) {
	return f(ctx, c, d)
}

// FileRenderer returns audio already rendered to Path, decoded by file
// extension through Registry. The composition and duration are ignored.
type FileRenderer struct {
	Path     string
	Registry *audio.Registry
	// BufferSize is the decode chunk in samples, 4096 when zero.
	BufferSize int
}

// NewFileRenderer uses DefaultRegistry when reg is nil.
func NewFileRenderer(path string, reg *audio.Registry) *FileRenderer {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &FileRenderer{Path: path, Registry: reg}
}

func (r *FileRenderer) Render(ctx context.Context, _ *composition.Composition, _ time.Duration) (*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(r.Path)), ".")
	dec, ok := r.Registry.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrNoDecoder, ext, strings.Join(r.Registry.Formats(), ", "))
	}

	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", r.Path, err)
	}
	defer src.Close()

	size := r.BufferSize
	if size <= 0 {
		size = 4096
	}

	buf, err := audio.Collect(src, size)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", r.Path, err)
	}

	return buf, ctx.Err()
}
