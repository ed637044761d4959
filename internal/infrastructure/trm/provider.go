// Package trm consulta la tasa representativa del mercado (COP por USD) publicada en
// datos.gov.co y la guarda en caché por un tiempo configurable.
package trm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/application/ports"
	"github.com/jhoicas/erp-manufactura/pkg/logger"
)

var _ ports.TRMProvider = (*DatosGovProvider)(nil)

const (
	cacheKey = "trm:actual"
	fuente   = "datos.gov.co"
	// formato SoQL de fechas flotantes (sin zona)
	layoutSoQL = "2006-01-02T15:04:05.000"
)

// DatosGovProvider implementa ports.TRMProvider sobre la API Socrata de datos abiertos.
type DatosGovProvider struct {
	url        string
	httpClient *http.Client
	cache      Cache
	ttl        time.Duration
	log        *logger.Logger
}

// NewDatosGovProvider construye el proveedor. cache nil desactiva la caché.
func NewDatosGovProvider(endpoint string, timeout, ttl time.Duration, cache Cache, log *logger.Logger) *DatosGovProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DatosGovProvider{
		url:        endpoint,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		ttl:        ttl,
		log:        log,
	}
}

// registro fila del conjunto de datos; Socrata devuelve todos los campos como string.
type registro struct {
	Valor         string `json:"valor"`
	Unidad        string `json:"unidad"`
	VigenciaDesde string `json:"vigenciadesde"`
	VigenciaHasta string `json:"vigenciahasta"`
}

// cacheado forma serializada en la caché.
type cacheado struct {
	Valor         decimal.Decimal `json:"valor"`
	VigenciaDesde time.Time       `json:"vigencia_desde"`
	VigenciaHasta time.Time       `json:"vigencia_hasta"`
	Fuente        string          `json:"fuente"`
}

// Actual devuelve la TRM vigente más reciente.
func (p *DatosGovProvider) Actual(ctx context.Context) (*ports.TRM, error) {
	if t := p.desdeCache(ctx); t != nil {
		return t, nil
	}
	t, err := p.consultar(ctx)
	if err != nil {
		return nil, err
	}
	p.guardar(ctx, t)
	p.log.Info().Str("valor", t.Valor.String()).Time("vigencia_desde", t.VigenciaDesde).Msg("TRM consultada")
	return t, nil
}

func (p *DatosGovProvider) consultar(ctx context.Context) (*ports.TRM, error) {
	q := url.Values{}
	q.Set("$order", "vigenciadesde DESC")
	q.Set("$limit", "1")
	endpoint := p.url
	if strings.Contains(endpoint, "?") {
		endpoint += "&" + q.Encode()
	} else {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("TRM: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("TRM: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("TRM: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("TRM: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TRM: HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var rows []registro
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("TRM: deserializar respuesta: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("TRM: la fuente no devolvió registros")
	}
	r := rows[0]

	valor, err := decimal.NewFromString(strings.TrimSpace(r.Valor))
	if err != nil || !valor.IsPositive() {
		return nil, fmt.Errorf("TRM: valor inválido %q", r.Valor)
	}
	desde, err := parseFecha(r.VigenciaDesde)
	if err != nil {
		return nil, fmt.Errorf("TRM: vigenciadesde: %w", err)
	}
	hasta, err := parseFecha(r.VigenciaHasta)
	if err != nil {
		hasta = desde
	}
	return &ports.TRM{Valor: valor, VigenciaDesde: desde, VigenciaHasta: hasta, Fuente: fuente}, nil
}

func parseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(layoutSoQL, s, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

func (p *DatosGovProvider) desdeCache(ctx context.Context) *ports.TRM {
	if p.cache == nil {
		return nil
	}
	b, ok, err := p.cache.Get(ctx, cacheKey)
	if err != nil {
		p.log.Warn().Err(err).Msg("TRM: leer caché")
		return nil
	}
	if !ok {
		return nil
	}
	var c cacheado
	if err := json.Unmarshal(b, &c); err != nil {
		p.log.Warn().Err(err).Msg("TRM: entrada de caché corrupta")
		return nil
	}
	return &ports.TRM{Valor: c.Valor, VigenciaDesde: c.VigenciaDesde, VigenciaHasta: c.VigenciaHasta, Fuente: c.Fuente}
}

func (p *DatosGovProvider) guardar(ctx context.Context, t *ports.TRM) {
	if p.cache == nil || p.ttl <= 0 {
		return
	}
	b, err := json.Marshal(cacheado{Valor: t.Valor, VigenciaDesde: t.VigenciaDesde, VigenciaHasta: t.VigenciaHasta, Fuente: t.Fuente})
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, cacheKey, b, p.ttl); err != nil {
		p.log.Warn().Err(err).Msg("TRM: escribir caché")
	}
}
