// Package export escribe tablas de reporte en CSV, XLSX o PDF.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/application/report"
)

// Format formato de salida.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrUnknownFormat formato no soportado.
var ErrUnknownFormat = fmt.Errorf("formato de exportación no soportado")

// ParseFormat acepta csv, xlsx (o excel) y pdf, sin distinguir mayúsculas. Vacío = csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType cabecera Content-Type de cada formato.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Writer serializa una tabla completa.
type Writer interface {
	Write(w io.Writer, t *report.Table) error
}

// NewWriter devuelve el escritor del formato.
func NewWriter(f Format) (Writer, error) {
	switch f {
	case FormatCSV:
		return CSVWriter{}, nil
	case FormatXLSX:
		return XLSXWriter{}, nil
	case FormatPDF:
		return PDFWriter{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// dateLayout formato dd/mm/aaaa.
const dateLayout = "02/01/2006"

// plainCell texto sin localización numérica (CSV): dinero con punto y 2 decimales.
func plainCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case decimal.Decimal:
		return x.StringFixed(2)
	case time.Time:
		return x.Format(dateLayout)
	default:
		return fmt.Sprint(x)
	}
}

// displayCell texto para lectura humana (PDF): dinero como "R$ 1.234,50".
func displayCell(col report.Column, v any) string {
	if d, ok := v.(decimal.Decimal); ok && col.Kind == report.KindMoney {
		return FormatBRL(d)
	}
	if n, ok := v.(int64); ok {
		return FormatInt(n)
	}
	return plainCell(v)
}
