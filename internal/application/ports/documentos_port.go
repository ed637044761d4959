package ports

import (
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

// Empresa datos de la empresa compradora (encabezado de los documentos).
type Empresa struct {
	Nombre    string
	NIT       string
	Direccion string
	Ciudad    string
	Telefono  string
	Email     string
}

// DocumentoOrden todo lo que necesita un generador para representar una orden de compra.
// CodigoVerificacion es el digest SHA-384 del XML canonicalizado; vacío al construir el XML.
type DocumentoOrden struct {
	Empresa            Empresa
	Orden              *entity.OrdenCompra
	Proveedor          *entity.Proveedor
	CodigoVerificacion string
}

// OrdenXMLBuilder construye el documento UBL Order y su código de verificación.
type OrdenXMLBuilder interface {
	Build(doc DocumentoOrden) (xmlBytes []byte, codigo string, err error)
}

// OrdenPDFGenerator renderiza la orden en PDF.
type OrdenPDFGenerator interface {
	Generate(doc DocumentoOrden) ([]byte, error)
}

// OrdenExcelGenerator exporta la orden a una hoja de cálculo.
type OrdenExcelGenerator interface {
	Generate(doc DocumentoOrden) ([]byte, error)
}
