package export

import (
	"fmt"
	"io"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/estoque-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// PDFWriter A4 horizontal: título, fecha de emisión y la tabla con cabecera coloreada.
type PDFWriter struct {
	// Now fecha mostrada en el encabezado; time.Now si es nil.
	Now func() time.Time
}

func (pw PDFWriter) Write(w io.Writer, t *report.Table) error {
	now := time.Now
	if pw.Now != nil {
		now = pw.Now
	}
	widths := gridWidths(t.Columns)
	total := 0
	for _, n := range widths {
		total += n
	}
	if total == 0 {
		total = 12
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(total).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(t.Title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(titleRow(t, now(), total))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(t.Columns, widths))
	m.AddRows(tableRows(t, widths)...)
	m.AddRows(row.New(6).Add(col.New(total).Add(
		text.New(fmt.Sprintf("Total de registros: %d", len(t.Rows)), props.Text{
			Size: 8, Top: 2, Color: colorGray, Align: align.Right,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("pdf: escribir: %w", err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func titleRow(t *report.Table, at time.Time, grid int) core.Row {
	return row.New(14).Add(
		col.New(grid).Add(
			text.New(t.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Gerado em "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(cols []report.Column, widths []int) core.Row {
	r := row.New(8)
	for i, c := range cols {
		r.Add(col.New(widths[i]).Add(text.New(c.Label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: cellAlign(c),
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRows(t *report.Table, widths []int) []core.Row {
	out := make([]core.Row, 0, len(t.Rows))
	for n, values := range t.Rows {
		r := row.New(7)
		for i, c := range t.Columns {
			var v any
			if i < len(values) {
				v = values[i]
			}
			r.Add(col.New(widths[i]).Add(text.New(displayCell(c, v), props.Text{
				Size: 8, Align: cellAlign(c), Top: 1, Left: 1, Right: 1,
			})))
		}
		if n%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		out = append(out, r)
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

// gridWidths ancho relativo por columna: texto 3, el resto 2.
func gridWidths(cols []report.Column) []int {
	out := make([]int, len(cols))
	for i, c := range cols {
		if c.Kind == report.KindText {
			out[i] = 3
		} else {
			out[i] = 2
		}
	}
	return out
}

func cellAlign(c report.Column) align.Type {
	switch c.Kind {
	case report.KindInteger, report.KindMoney:
		return align.Right
	case report.KindDate:
		return align.Center
	default:
		return align.Left
	}
}
