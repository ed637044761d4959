package dto

import "time"

// CreateProveedorRequest entrada para crear un proveedor.
type CreateProveedorRequest struct {
	NIT           string `json:"nit" validate:"required,min=7,max=20"`
	RazonSocial   string `json:"razon_social" validate:"required,min=2,max=200"`
	Direccion     string `json:"direccion" validate:"omitempty,max=255"`
	Ciudad        string `json:"ciudad" validate:"omitempty,max=100"`
	Telefono      string `json:"telefono" validate:"omitempty,max=50"`
	Email         string `json:"email" validate:"omitempty,email"`
	Contacto      string `json:"contacto" validate:"omitempty,max=200"`
	PlazoPagoDias int    `json:"plazo_pago_dias" validate:"min=0,max=365"`
}

// UpdateProveedorRequest actualización parcial de un proveedor.
type UpdateProveedorRequest struct {
	RazonSocial   *string `json:"razon_social" validate:"omitempty,min=2,max=200"`
	Direccion     *string `json:"direccion" validate:"omitempty,max=255"`
	Ciudad        *string `json:"ciudad" validate:"omitempty,max=100"`
	Telefono      *string `json:"telefono" validate:"omitempty,max=50"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Contacto      *string `json:"contacto" validate:"omitempty,max=200"`
	PlazoPagoDias *int    `json:"plazo_pago_dias" validate:"omitempty,min=0,max=365"`
	Activo        *bool   `json:"activo"`
}

// ProveedorSearchRequest query del selector de proveedores.
type ProveedorSearchRequest struct {
	PageRequest
	Q           string `query:"q"`
	SoloActivos bool   `query:"solo_activos"`
}

// ProveedorResponse salida de un proveedor.
type ProveedorResponse struct {
	ID            string    `json:"id"`
	NIT           string    `json:"nit"`
	RazonSocial   string    `json:"razon_social"`
	Direccion     string    `json:"direccion"`
	Ciudad        string    `json:"ciudad"`
	Telefono      string    `json:"telefono"`
	Email         string    `json:"email"`
	Contacto      string    `json:"contacto"`
	PlazoPagoDias int       `json:"plazo_pago_dias"`
	Activo        bool      `json:"activo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
