package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// StockStats resumen del catálogo calculado al vuelo.
type StockStats struct {
	TotalProducts  int
	LowCount       int
	ZeroCount      int
	AttentionCount int
	TotalValue     decimal.Decimal
}

// Summarize calcula las estadísticas a partir de la clasificación.
func Summarize(items []Classified) StockStats {
	s := StockStats{TotalValue: decimal.Zero}
	for _, c := range items {
		s.TotalProducts++
		switch c.Band {
		case BandLow:
			s.LowCount++
		case BandZero:
			s.ZeroCount++
		}
		if c.Attention {
			s.AttentionCount++
		}
		s.TotalValue = s.TotalValue.Add(c.Product.StockValue())
	}
	return s
}

// MovementSummary totales del ledger en un período.
type MovementSummary struct {
	EntryCount    int
	ExitCount     int
	EntryQuantity int64
	ExitQuantity  int64
	Net           int64
}

// SummarizeMovements agrega entradas y salidas. Net = entradas - salidas.
func SummarizeMovements(movs []*entity.Movement) MovementSummary {
	var s MovementSummary
	for _, m := range movs {
		switch m.Kind {
		case entity.MovementEntry:
			s.EntryCount++
			s.EntryQuantity += m.Quantity
		case entity.MovementExit:
			s.ExitCount++
			s.ExitQuantity += m.Quantity
		}
	}
	s.Net = s.EntryQuantity - s.ExitQuantity
	return s
}

// DailySummary resumen de un día calendario.
type DailySummary struct {
	Day time.Time
	MovementSummary
}

// SummarizeByDay agrupa por día (en la zona de loc), ordenado ascendente.
func SummarizeByDay(movs []*entity.Movement, loc *time.Location) []DailySummary {
	if loc == nil {
		loc = time.UTC
	}
	buckets := make(map[time.Time][]*entity.Movement)
	for _, m := range movs {
		t := m.CreatedAt.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		buckets[day] = append(buckets[day], m)
	}
	out := make([]DailySummary, 0, len(buckets))
	for day, list := range buckets {
		out = append(out, DailySummary{Day: day, MovementSummary: SummarizeMovements(list)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// ProductActivity conteo de movimientos de un producto.
type ProductActivity struct {
	ProductID     string
	ProductName   string
	MovementCount int
	Quantity      int64
}

// TopMoved devuelve los n productos con más movimientos.
// Empates: mayor cantidad movida, luego nombre.
func TopMoved(movs []*entity.Movement, n int) []ProductActivity {
	byID := make(map[string]*ProductActivity)
	for _, m := range movs {
		a, ok := byID[m.ProductID]
		if !ok {
			a = &ProductActivity{ProductID: m.ProductID, ProductName: m.ProductName}
			byID[m.ProductID] = a
		}
		a.MovementCount++
		a.Quantity += m.Quantity
	}
	out := make([]ProductActivity, 0, len(byID))
	for _, a := range byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MovementCount != out[j].MovementCount {
			return out[i].MovementCount > out[j].MovementCount
		}
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductName < out[j].ProductName
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
