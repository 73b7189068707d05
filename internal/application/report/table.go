// Package report arma las tablas de los reportes exportables (catálogo, movimientos y reposición).
// Las tablas son independientes del formato; los escritores viven en infrastructure/export.
package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// ColumnKind tipo de dato de una columna; guía el formato en cada escritor.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInteger
	KindMoney
	KindDate
)

// Column columna con clave estable y etiqueta de cabecera.
type Column struct {
	Key   string
	Label string
	Kind  ColumnKind
}

// Row valores en el mismo orden que Table.Columns.
// Tipos admitidos: string, int64, decimal.Decimal, time.Time y nil (celda vacía).
type Row []any

// Table reporte listo para exportar.
type Table struct {
	Name    string // nombre base del archivo
	Title   string
	Columns []Column
	Rows    []Row
}

// Labels devuelve las etiquetas de cabecera en orden.
func (t *Table) Labels() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// FileName nombre del archivo de descarga: <name>-YYYY-MM-DD.<ext>.
func (t *Table) FileName(day time.Time, ext string) string {
	return t.Name + "-" + day.Format("2006-01-02") + "." + ext
}

func money(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}
