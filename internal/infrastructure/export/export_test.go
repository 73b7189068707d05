package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/infrastructure/export"
)

func sampleTable() *report.Table {
	return &report.Table{
		Name:  "relatorio-produtos",
		Title: "Relatório de Produtos",
		Columns: []report.Column{
			{Key: "nome", Label: "Nome do Produto", Kind: report.KindText},
			{Key: "estoque_atual", Label: "Estoque Atual", Kind: report.KindInteger},
			{Key: "valor_unitario", Label: "Valor Unitário (R$)", Kind: report.KindMoney},
			{Key: "data", Label: "Data", Kind: report.KindDate},
		},
		Rows: []report.Row{
			{"Caneta, azul", int64(1234), decimal.RequireFromString("1234.5"), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
			{"Papel", int64(0), nil, nil},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]export.Format{"": export.FormatCSV, "CSV": export.FormatCSV, "excel": export.FormatXLSX, "xlsx": export.FormatXLSX, " pdf ": export.FormatPDF} {
		got, err := export.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := export.ParseFormat("docx")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.CSVWriter{}.Write(&buf, sampleTable()))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}), "BOM UTF-8")
	assert.Equal(t,
		"Nome do Produto,Estoque Atual,Valor Unitário (R$),Data\n"+
			"\"Caneta, azul\",1234,1234.50,10/03/2024\n"+
			"Papel,0,,\n",
		string(out[3:]))
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,50", export.FormatBRL(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 0,00", export.FormatBRL(decimal.Zero))
	assert.Equal(t, "1.234", export.FormatInt(1234))
}

func TestXLSXWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.XLSXWriter{}.Write(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	assert.Equal(t, "Relatório de Produtos", sheet)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Nome do Produto", "Estoque Atual", "Valor Unitário (R$)", "Data"}, rows[0])
	assert.Equal(t, "Caneta, azul", rows[1][0])
	assert.Equal(t, "10/03/2024", rows[1][3])

	raw, err := f.GetCellValue(sheet, "C2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1234.5", raw)
}

func TestPDFWriter(t *testing.T) {
	var buf bytes.Buffer
	w := export.PDFWriter{Now: func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }}
	require.NoError(t, w.Write(&buf, sampleTable()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestNewWriter(t *testing.T) {
	for _, f := range []export.Format{export.FormatCSV, export.FormatXLSX, export.FormatPDF} {
		w, err := export.NewWriter(f)
		require.NoError(t, err)
		assert.NotNil(t, w)
		assert.NotEmpty(t, f.ContentType())
	}
	_, err := export.NewWriter("odt")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestXLSXWriter_PropagaErroresDeCelda(t *testing.T) {
	cols := make([]report.Column, excelize.MaxColumns+1)
	for i := range cols {
		cols[i] = report.Column{Key: "c", Label: "C", Kind: report.KindInteger}
	}
	tbl := &report.Table{Name: "largo", Title: "Largo", Columns: cols}

	var buf bytes.Buffer
	err := export.XLSXWriter{}.Write(&buf, tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cabecera")
	assert.Zero(t, buf.Len(), "no se escribe un archivo incompleto")
}
