package adapters

import (
	"html/template"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pycompat/internal/types"
)

// GridHTMLAdapter renders the compatibility grid as a static HTML
// page: one row per package, self results on the diagonal, pairwise
// results in the lower triangle.
type GridHTMLAdapter struct {
	tmpl *template.Template
}

func NewGridHTMLAdapter() GridHTMLAdapter {
	return GridHTMLAdapter{
		tmpl: template.Must(template.New("grid").Funcs(template.FuncMap{
			"statusClass": statusClass,
		}).Parse(gridTemplate)),
	}
}

type gridRow struct {
	Package string
	Cells   []types.GridCell
}

type gridPage struct {
	PyVersion types.PyVersion
	Packages  []string
	Rows      []gridRow
}

func (a GridHTMLAdapter) WriteGrid(w io.Writer, grid types.Grid) error {
	page := gridPage{
		PyVersion: grid.PyVersion,
		Packages:  grid.Packages,
		Rows:      make([]gridRow, len(grid.Packages)),
	}
	rowIndex := map[string]int{}
	for i, pkg := range grid.Packages {
		page.Rows[i] = gridRow{Package: pkg}
		rowIndex[pkg] = i
	}
	for _, cell := range grid.Cells {
		i, ok := rowIndex[cell.RowPackage]
		if !ok {
			continue
		}
		page.Rows[i].Cells = append(page.Rows[i].Cells, cell)
	}
	if err := a.tmpl.Execute(w, page); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to render grid").
			WithCause(err)
	}
	return nil
}

func statusClass(cell types.GridCell) string {
	switch {
	case cell.SelfIssue:
		return "self-issue"
	case cell.Status == types.StatusSuccess:
		return "success"
	case cell.Status.Failed():
		return "failure"
	default:
		return "unknown"
	}
}

const gridTemplate = `<!DOCTYPE html>
<html>
<head>
<title>Package compatibility (Python {{.PyVersion}})</title>
<style>
table { border-collapse: collapse; font-family: sans-serif; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: center; }
th { background: #f5f5f5; }
td.success { background: #c8e6c9; }
td.failure { background: #ffcdd2; }
td.unknown { background: #eeeeee; }
td.self-issue { background: #fff9c4; }
</style>
</head>
<body>
<h1>Package compatibility (Python {{.PyVersion}})</h1>
<table>
<tr><th></th>{{range .Packages}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><th>{{.Package}}</th>{{range .Cells}}<td class="{{statusClass .}}" title="{{.Details}}">{{.Status}}</td>{{end}}</tr>
{{end}}</table>
<p>Yellow cells mark pairwise failures explained by a package's own self-incompatibility.</p>
</body>
</html>
`
