package entity

import "time"

// Proveedor maestro de proveedores (se elige desde el selector al crear una orden de compra).
type Proveedor struct {
	ID            string
	NIT           string // normalizado "base-dv", sin puntos
	RazonSocial   string
	Direccion     string
	Ciudad        string
	Telefono      string
	Email         string
	Contacto      string
	PlazoPagoDias int
	Activo        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
