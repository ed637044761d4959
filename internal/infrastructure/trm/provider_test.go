package trm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const respuestaOK = `[{"valor":"4123.45","unidad":"COP","vigenciadesde":"2025-03-10T00:00:00.000","vigenciahasta":"2025-03-10T00:00:00.000"}]`

func servidor(t *testing.T, status int, body string, llamadas *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(llamadas, 1)
		assert.Equal(t, "1", r.URL.Query().Get("$limit"))
		assert.Equal(t, "vigenciadesde DESC", r.URL.Query().Get("$order"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestActual_ConsultaYCachea(t *testing.T) {
	var n int32
	srv := servidor(t, http.StatusOK, respuestaOK, &n)
	p := NewDatosGovProvider(srv.URL, time.Second, time.Hour, NewMemoryCache(), nil)

	got, err := p.Actual(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4123.45", got.Valor.String())
	assert.Equal(t, 2025, got.VigenciaDesde.Year())
	assert.Equal(t, time.March, got.VigenciaDesde.Month())
	assert.Equal(t, "datos.gov.co", got.Fuente)

	again, err := p.Actual(context.Background())
	require.NoError(t, err)
	assert.True(t, again.Valor.Equal(got.Valor))
	assert.Equal(t, int32(1), atomic.LoadInt32(&n), "la segunda consulta sale de la caché")
}

func TestActual_SinCacheConsultaSiempre(t *testing.T) {
	var n int32
	srv := servidor(t, http.StatusOK, respuestaOK, &n)
	p := NewDatosGovProvider(srv.URL, time.Second, time.Hour, nil, nil)

	_, err := p.Actual(context.Background())
	require.NoError(t, err)
	_, err = p.Actual(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&n))
}

func TestActual_Errores(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http 500", http.StatusInternalServerError, `{"error":"down"}`},
		{"sin registros", http.StatusOK, `[]`},
		{"valor no numérico", http.StatusOK, `[{"valor":"n/a","vigenciadesde":"2025-03-10T00:00:00.000"}]`},
		{"valor cero", http.StatusOK, `[{"valor":"0","vigenciadesde":"2025-03-10T00:00:00.000"}]`},
		{"json inválido", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n int32
			srv := servidor(t, tt.status, tt.body, &n)
			p := NewDatosGovProvider(srv.URL, time.Second, time.Hour, NewMemoryCache(), nil)
			_, err := p.Actual(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestMemoryCache_Expira(t *testing.T) {
	c := NewMemoryCache()
	ahora := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return ahora }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	b, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(b))

	ahora = ahora.Add(time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
