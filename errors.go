// SPDX-License-Identifier: EPL-2.0

package scoreport

import (
	"errors"
	"fmt"
)

// Sentinels wrapped by ExportError and the renderers. Test them with errors.Is.
var (
	ErrNilComposition = errors.New("nil composition")
	ErrNoRenderer     = errors.New("no renderer configured")
	ErrRender         = errors.New("render failed")
	ErrEmptyRender    = errors.New("renderer returned no audio")
	ErrConform        = errors.New("cannot convert rendered audio")
	ErrEncode         = errors.New("encode failed")
	ErrUnknownFormat  = errors.New("unknown export format")
	ErrNoDecoder      = errors.New("no decoder for file type")
)

// ExportError is the single error returned by a failed export. Op is the
// pipeline step that failed: "render", "conform" or "encode".
type ExportError struct {
	Format Format
	Op     string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %s: %v", e.Format, e.Op, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
