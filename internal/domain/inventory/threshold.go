package inventory

import "github.com/jhoicas/estoque-api/internal/domain/entity"

// Band clasificación del nivel de stock de un producto.
type Band string

const (
	BandNormal Band = "normal"
	BandLow    Band = "baixo"
	BandZero   Band = "zerado"
)

// Alerting indica si la banda genera notificación.
func (b Band) Alerting() bool {
	return b == BandLow || b == BandZero
}

// Label etiqueta usada en reportes.
func (b Band) Label() string {
	switch b {
	case BandZero:
		return "Zerado"
	case BandLow:
		return "Baixo"
	default:
		return "Normal"
	}
}

// Policy decide si un stock positivo se considera bajo.
type Policy interface {
	IsLow(current, minimum int64) bool
	Name() string
}

// RelativePolicy: bajo cuando current <= minimum del propio producto.
type RelativePolicy struct{}

func (RelativePolicy) IsLow(current, minimum int64) bool { return current <= minimum }
func (RelativePolicy) Name() string                      { return "relative" }

// AbsolutePolicy: bajo cuando current <= Threshold, sin importar el mínimo del producto.
type AbsolutePolicy struct {
	Threshold int64
}

func (p AbsolutePolicy) IsLow(current, _ int64) bool { return current <= p.Threshold }
func (AbsolutePolicy) Name() string                  { return "absolute" }

// PolicyFromConfig construye la política por nombre ("relative" | "absolute").
func PolicyFromConfig(name string, threshold int64) Policy {
	if name == "absolute" {
		return AbsolutePolicy{Threshold: threshold}
	}
	return RelativePolicy{}
}

// Classify asigna la banda de un producto.
func Classify(current, minimum int64, policy Policy) Band {
	if current <= 0 {
		return BandZero
	}
	if policy.IsLow(current, minimum) {
		return BandLow
	}
	return BandNormal
}

// NeedsAttention sub-banda visual: current <= minimum * 1.5. No genera notificaciones.
func NeedsAttention(current, minimum int64) bool {
	return current*2 <= minimum*3
}

// Classified producto con su banda calculada.
type Classified struct {
	Product   *entity.Product
	Band      Band
	Attention bool
}

// Evaluate clasifica los productos activos. Los inactivos se omiten.
func Evaluate(products []*entity.Product, policy Policy) []Classified {
	if policy == nil {
		policy = RelativePolicy{}
	}
	out := make([]Classified, 0, len(products))
	for _, p := range products {
		if p == nil || !p.Active {
			continue
		}
		band := Classify(p.CurrentStock, p.MinimumStock, policy)
		out = append(out, Classified{
			Product:   p,
			Band:      band,
			Attention: band == BandNormal && NeedsAttention(p.CurrentStock, p.MinimumStock),
		})
	}
	return out
}

// Alerts filtra los clasificados en banda Low o Zero.
func Alerts(items []Classified) []Classified {
	out := make([]Classified, 0)
	for _, c := range items {
		if c.Band.Alerting() {
			out = append(out, c)
		}
	}
	return out
}
