package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/estoque-api/internal/application/report"
)

const defaultSheet = "Sheet1"

// XLSXWriter hoja única con cabecera en negrita sobre fondo azul.
type XLSXWriter struct{}

func (XLSXWriter) Write(w io.Writer, t *report.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("xlsx: nombre de hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("xlsx: estilo de cabecera: %w", err)
	}
	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("xlsx: estilo monetario: %w", err)
	}

	for i, c := range t.Columns {
		if err := writeHeader(f, sheet, i+1, c, headerStyle); err != nil {
			return fmt.Errorf("xlsx: cabecera %q: %w", c.Label, err)
		}
	}
	for rowIdx, r := range t.Rows {
		for colIdx, c := range t.Columns {
			if colIdx >= len(r) || r[colIdx] == nil {
				continue
			}
			if err := writeCell(f, sheet, colIdx+1, rowIdx+2, c, r[colIdx], moneyStyle); err != nil {
				return fmt.Errorf("xlsx: fila %d, columna %q: %w", rowIdx+1, c.Label, err)
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("xlsx: fijar cabecera: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, col int, c report.Column, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, c.Label); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
		return err
	}
	colName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, colName, colName, columnWidth(c))
}

func writeCell(f *excelize.File, sheet string, col, row int, c report.Column, value any, moneyStyle int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	switch v := value.(type) {
	case decimal.Decimal:
		if err := f.SetCellValue(sheet, cell, v.InexactFloat64()); err != nil {
			return err
		}
		if c.Kind == report.KindMoney {
			return f.SetCellStyle(sheet, cell, cell, moneyStyle)
		}
		return nil
	case time.Time:
		return f.SetCellValue(sheet, cell, v.Format(dateLayout))
	default:
		return f.SetCellValue(sheet, cell, v)
	}
}

// sheetName título de la hoja; Excel limita el nombre a 31 caracteres.
func sheetName(t *report.Table) string {
	name := []rune(t.Title)
	if len(name) == 0 {
		return "Relatorio"
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return string(name)
}

func columnWidth(c report.Column) float64 {
	switch c.Kind {
	case report.KindText:
		return 30
	case report.KindMoney:
		return 20
	default:
		return 16
	}
}
