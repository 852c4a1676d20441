package ports

import (
	"io"

	"pycompat/internal/types"
)

// GridPort renders the dashboard compatibility grid.
type GridPort interface {
	WriteGrid(w io.Writer, grid types.Grid) error
}
