package entity

import "time"

// Category representa una categoría de productos (dato de referencia).
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
