package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jhoicas/estoque-api/internal/application/report"
)

// utf8BOM hace que Excel abra el CSV con acentos correctos.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter CSV separado por comas con BOM UTF-8.
type CSVWriter struct{}

func (CSVWriter) Write(w io.Writer, t *report.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("csv: escribir bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Labels()); err != nil {
		return fmt.Errorf("csv: cabecera: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i := range t.Columns {
			var v any
			if i < len(r) {
				v = r[i]
			}
			record[i] = plainCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv: fila: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
