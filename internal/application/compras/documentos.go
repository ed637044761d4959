package compras

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-manufactura/internal/application/ports"
	"github.com/jhoicas/erp-manufactura/internal/domain"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
)

// Archivo documento generado listo para descargar.
type Archivo struct {
	Nombre      string
	ContentType string
	Contenido   []byte
}

// Content types de los documentos.
const (
	ContentTypePDF   = "application/pdf"
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeXML   = "application/xml"
)

// DocumentosUseCase genera PDF, Excel y XML de órdenes ya emitidas (LIBERADA, ENVIADA o CERRADA).
type DocumentosUseCase struct {
	ordenRepo     repository.OrdenCompraRepository
	proveedorRepo repository.ProveedorRepository
	empresa       ports.Empresa
	xml           ports.OrdenXMLBuilder
	pdf           ports.OrdenPDFGenerator
	excel         ports.OrdenExcelGenerator
}

// NewDocumentosUseCase construye el caso de uso con los generadores de infraestructura.
func NewDocumentosUseCase(
	ordenRepo repository.OrdenCompraRepository,
	proveedorRepo repository.ProveedorRepository,
	empresa ports.Empresa,
	xml ports.OrdenXMLBuilder,
	pdf ports.OrdenPDFGenerator,
	excel ports.OrdenExcelGenerator,
) *DocumentosUseCase {
	return &DocumentosUseCase{
		ordenRepo:     ordenRepo,
		proveedorRepo: proveedorRepo,
		empresa:       empresa,
		xml:           xml,
		pdf:           pdf,
		excel:         excel,
	}
}

// PDF orden impresa con código de verificación y QR.
func (uc *DocumentosUseCase) PDF(ctx context.Context, ordenID string) (*Archivo, error) {
	doc, err := uc.cargar(ctx, ordenID)
	if err != nil {
		return nil, err
	}
	if _, doc.CodigoVerificacion, err = uc.xml.Build(*doc); err != nil {
		return nil, fmt.Errorf("xml orden %s: %w", doc.Orden.Numero, err)
	}
	b, err := uc.pdf.Generate(*doc)
	if err != nil {
		return nil, fmt.Errorf("pdf orden %s: %w", doc.Orden.Numero, err)
	}
	return &Archivo{Nombre: doc.Orden.Numero + ".pdf", ContentType: ContentTypePDF, Contenido: b}, nil
}

// Excel hoja de cálculo de la orden.
func (uc *DocumentosUseCase) Excel(ctx context.Context, ordenID string) (*Archivo, error) {
	doc, err := uc.cargar(ctx, ordenID)
	if err != nil {
		return nil, err
	}
	b, err := uc.excel.Generate(*doc)
	if err != nil {
		return nil, fmt.Errorf("excel orden %s: %w", doc.Orden.Numero, err)
	}
	return &Archivo{Nombre: doc.Orden.Numero + ".xlsx", ContentType: ContentTypeExcel, Contenido: b}, nil
}

// XML documento UBL Order.
func (uc *DocumentosUseCase) XML(ctx context.Context, ordenID string) (*Archivo, error) {
	doc, err := uc.cargar(ctx, ordenID)
	if err != nil {
		return nil, err
	}
	b, _, err := uc.xml.Build(*doc)
	if err != nil {
		return nil, fmt.Errorf("xml orden %s: %w", doc.Orden.Numero, err)
	}
	return &Archivo{Nombre: doc.Orden.Numero + ".xml", ContentType: ContentTypeXML, Contenido: b}, nil
}

func (uc *DocumentosUseCase) cargar(ctx context.Context, ordenID string) (*ports.DocumentoOrden, error) {
	o, err := uc.ordenRepo.GetByID(ctx, ordenID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !o.Estado.EsDocumento() {
		return nil, fmt.Errorf("%w: la orden %s en estado %s no es un documento emitido", domain.ErrInvalidState, o.Numero, o.Estado)
	}
	p, err := uc.proveedorRepo.GetByID(ctx, o.ProveedorID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, o.ProveedorID)
	}
	return &ports.DocumentoOrden{Empresa: uc.empresa, Orden: o, Proveedor: p}, nil
}
