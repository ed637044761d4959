// Package ubl construye la orden de compra como documento UBL 2.1 Order y calcula su
// código de verificación (SHA-384 del XML canonicalizado).
package ubl

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/erp-manufactura/internal/application/ports"
	"github.com/jhoicas/erp-manufactura/internal/domain/compras"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/pkg/dian"
)

// Namespaces UBL 2.1.
const (
	NsOrder = "urn:oasis:names:specification:ubl:schema:xsd:Order-2"
	NsCac   = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc   = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	ublVersion    = "2.1"
	schemeAgency  = "195" // DIAN
	schemeAgencyN = "CO, DIAN (Dirección de Impuestos y Aduanas Nacionales)"
)

// OrderBuilder implementa ports.OrdenXMLBuilder.
type OrderBuilder struct{}

// NewOrderBuilder crea el builder.
func NewOrderBuilder() *OrderBuilder { return &OrderBuilder{} }

// Build genera el XML de la orden y su código de verificación (hex, 96 caracteres).
// El código se calcula sobre la forma canónica C14N sin la declaración XML.
func (b *OrderBuilder) Build(doc ports.DocumentoOrden) ([]byte, string, error) {
	if doc.Orden == nil || doc.Proveedor == nil {
		return nil, "", errors.New("ubl: faltan orden o proveedor")
	}
	o := doc.Orden

	x := etree.NewDocument()
	root := x.CreateElement("Order")
	root.CreateAttr("xmlns", NsOrder)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", ublVersion)
	cbc(root, "ID", o.Numero)
	cbc(root, "IssueDate", o.FechaEmision.Format("2006-01-02"))
	if o.Observaciones != "" {
		cbc(root, "Note", o.Observaciones)
	}
	cbc(root, "DocumentCurrencyCode", o.Moneda)
	cbc(root, "LineCountNumeric", fmt.Sprintf("%d", len(o.Items)))

	party(root.CreateElement("cac:BuyerCustomerParty"), doc.Empresa.NIT, doc.Empresa.Nombre, doc.Empresa.Ciudad)
	party(root.CreateElement("cac:SellerSupplierParty"), doc.Proveedor.NIT, doc.Proveedor.RazonSocial, doc.Proveedor.Ciudad)

	if o.FechaEntrega != nil {
		period := root.CreateElement("cac:Delivery").CreateElement("cac:RequestedDeliveryPeriod")
		cbc(period, "EndDate", o.FechaEntrega.Format("2006-01-02"))
	}
	if o.CondicionPago != "" {
		cbc(root.CreateElement("cac:PaymentTerms"), "Note", o.CondicionPago)
	}
	if compras.Moneda(o.Moneda) == compras.MonedaUSD && o.TRM.IsPositive() {
		ex := root.CreateElement("cac:PricingExchangeRate")
		cbc(ex, "SourceCurrencyCode", o.Moneda)
		cbc(ex, "TargetCurrencyCode", "COP")
		cbc(ex, "CalculationRate", o.TRM.String())
		cbc(ex, "Date", o.FechaEmision.Format("2006-01-02"))
	}

	places := compras.Moneda(o.Moneda).Decimales()
	if o.IVAHabilitado {
		taxTotal(root, o, places)
	}

	lmt := root.CreateElement("cac:AnticipatedMonetaryTotal")
	amount(lmt, "LineExtensionAmount", o.Subtotal, o.Moneda, places)
	amount(lmt, "TaxExclusiveAmount", o.Subtotal, o.Moneda, places)
	amount(lmt, "TaxInclusiveAmount", o.Total, o.Moneda, places)
	amount(lmt, "PayableAmount", o.Total, o.Moneda, places)

	for i := range o.Items {
		orderLine(root, &o.Items[i], o, places)
	}

	x.Indent(2)
	body, err := x.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("ubl: serializar: %w", err)
	}
	codigo, err := CodigoVerificacion(body)
	if err != nil {
		return nil, "", err
	}
	out := append([]byte(xml.Header), body...)
	return out, codigo, nil
}

// CodigoVerificacion SHA-384 (hex) de la forma canónica C14N del XML.
func CodigoVerificacion(xmlBytes []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(stripDeclaration(xmlBytes)))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	sum := sha512.Sum384(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func stripDeclaration(b []byte) []byte {
	b = bytes.TrimSpace(b)
	if bytes.HasPrefix(b, []byte("<?xml")) {
		if i := bytes.Index(b, []byte("?>")); i >= 0 {
			return bytes.TrimSpace(b[i+2:])
		}
	}
	return b
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func party(parent *etree.Element, nit, nombre, ciudad string) {
	p := parent.CreateElement("cac:Party")
	cbc(p.CreateElement("cac:PartyName"), "Name", nombre)
	if ciudad != "" {
		cbc(p.CreateElement("cac:PostalAddress"), "CityName", ciudad)
	}
	scheme := p.CreateElement("cac:PartyTaxScheme")
	cbc(scheme, "RegistrationName", nombre)
	base, dv := dian.SplitNIT(nit)
	id := cbc(scheme, "CompanyID", base)
	id.CreateAttr("schemeAgencyID", schemeAgency)
	id.CreateAttr("schemeAgencyName", schemeAgencyN)
	id.CreateAttr("schemeName", dian.IdentificationTypeNIT)
	if dv != "" {
		id.CreateAttr("schemeID", dv)
	}
	tax := scheme.CreateElement("cac:TaxScheme")
	cbc(tax, "ID", dian.TaxCodeIVA)
	cbc(tax, "Name", "IVA")
}

// taxTotal agrupa el IVA por tarifa en un TaxSubtotal por porcentaje.
func taxTotal(root *etree.Element, o *entity.OrdenCompra, places int32) {
	tt := root.CreateElement("cac:TaxTotal")
	amount(tt, "TaxAmount", o.TotalIVA, o.Moneda, places)

	type grupo struct{ base, iva decimal.Decimal }
	var orden []string
	grupos := map[string]*grupo{}
	for _, it := range o.Items {
		k := it.PorcentajeIVA.String()
		g, ok := grupos[k]
		if !ok {
			g = &grupo{base: decimal.Zero, iva: decimal.Zero}
			grupos[k] = g
			orden = append(orden, k)
		}
		g.base = g.base.Add(it.Subtotal)
		g.iva = g.iva.Add(it.ValorIVA)
	}
	for _, k := range orden {
		g := grupos[k]
		sub := tt.CreateElement("cac:TaxSubtotal")
		amount(sub, "TaxableAmount", g.base, o.Moneda, places)
		amount(sub, "TaxAmount", g.iva, o.Moneda, places)
		cat := sub.CreateElement("cac:TaxCategory")
		cbc(cat, "Percent", k)
		scheme := cat.CreateElement("cac:TaxScheme")
		cbc(scheme, "ID", dian.TaxCodeIVA)
		cbc(scheme, "Name", "IVA")
	}
}

func orderLine(root *etree.Element, it *entity.ItemOrdenCompra, o *entity.OrdenCompra, places int32) {
	ol := root.CreateElement("cac:OrderLine")
	li := ol.CreateElement("cac:LineItem")
	cbc(li, "ID", fmt.Sprintf("%d", it.Linea))
	q := cbc(li, "Quantity", it.Cantidad.String())
	q.CreateAttr("unitCode", dian.UnitCode(it.UnidadMedida))
	amount(li, "LineExtensionAmount", it.Subtotal, o.Moneda, places)
	if o.IVAHabilitado {
		amount(li, "TotalTaxAmount", it.ValorIVA, o.Moneda, places)
	}
	price := li.CreateElement("cac:Price")
	amount(price, "PriceAmount", it.PrecioUnitario, o.Moneda, -1)
	bq := cbc(price, "BaseQuantity", "1")
	bq.CreateAttr("unitCode", dian.UnitCode(it.UnidadMedida))

	item := li.CreateElement("cac:Item")
	cbc(item, "Description", it.Descripcion)
	if it.MateriaPrimaID != nil {
		cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", *it.MateriaPrimaID)
	}
	if o.IVAHabilitado {
		cat := item.CreateElement("cac:ClassifiedTaxCategory")
		cbc(cat, "Percent", it.PorcentajeIVA.String())
		cbc(cat.CreateElement("cac:TaxScheme"), "ID", dian.TaxCodeIVA)
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cbc(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(value)
	return el
}

// amount escribe un monto con currencyID. places < 0 conserva la precisión original.
func amount(parent *etree.Element, tag string, v decimal.Decimal, moneda string, places int32) {
	s := v.String()
	if places >= 0 {
		s = v.StringFixed(places)
	}
	cbc(parent, tag, s).CreateAttr("currencyID", moneda)
}
