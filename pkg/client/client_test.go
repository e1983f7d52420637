package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/pkg/client"
)

func dealJSON(id, name string) dto.DealResponse {
	return dto.DealResponse{
		ID:       id,
		Name:     name,
		DealType: "B2C",
		Stage:    "prospecting",
		Status:   "open",
		Amount:   decimal.NewFromInt(100),
		Currency: "USD",
	}
}

func listBody(items ...dto.DealResponse) dto.DealListResponse {
	return dto.DealListResponse{Items: items}
}

// writeJSON responde desde el handler del servidor de test. No usa require:
// FailNow no puede llamarse fuera de la goroutine del test.
func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("codificar respuesta de test: %v", err)
	}
}

func newStore(t *testing.T, handler http.Handler) (*client.DealStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api := client.New(srv.URL, client.Session{Token: "tok"}, srv.Client())
	return client.NewDealStore(api), srv
}

// ──────────────────────────────────────────────────────────────────────────────
// Load: gana el último emitido
// ──────────────────────────────────────────────────────────────────────────────

// Dos Load donde el primero responde tarde: el estado final debe reflejar el
// segundo (más reciente), nunca pisarse con la respuesta vieja.
func TestLoad_RespuestaObsoletaSeDescarta(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls int
	var mu sync.Mutex

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(firstArrived)
			<-releaseFirst // retener la primera respuesta
			writeJSON(t, w, http.StatusOK, listBody(dealJSON("d1", "lista vieja")))
			return
		}
		writeJSON(t, w, http.StatusOK, listBody(dealJSON("d2", "lista nueva")))
	})
	store, _ := newStore(t, handler)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = store.Load(context.Background(), client.DealFilter{})
	}()

	<-firstArrived // el primer Load ya está en vuelo
	require.NoError(t, store.Load(context.Background(), client.DealFilter{}))

	close(releaseFirst) // ahora llega la respuesta vieja
	wg.Wait()

	deals := store.Deals()
	require.Len(t, deals, 1)
	assert.Equal(t, "d2", deals[0].ID,
		"la respuesta del Load más reciente debe prevalecer")
	assert.Equal(t, "lista nueva", deals[0].Name)
}

func TestLoad_ReemplazaLista(t *testing.T) {
	store, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, listBody(dealJSON("d1", "uno"), dealJSON("d2", "dos")))
	}))

	require.NoError(t, store.Load(context.Background(), client.DealFilter{}))
	assert.Len(t, store.Deals(), 2)
	assert.False(t, store.Loading())
	assert.NoError(t, store.Err())
}

func TestLoad_ErrorMarcaFlagSinTocarLista(t *testing.T) {
	var fail bool
	store, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			writeJSON(t, w, http.StatusInternalServerError,
				dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
			return
		}
		writeJSON(t, w, http.StatusOK, listBody(dealJSON("d1", "uno")))
	}))

	require.NoError(t, store.Load(context.Background(), client.DealFilter{}))
	fail = true
	err := store.Load(context.Background(), client.DealFilter{})
	require.Error(t, err)

	assert.Len(t, store.Deals(), 1, "la lista previa se conserva tras un Load fallido")
	assert.Error(t, store.Err())
}

// ──────────────────────────────────────────────────────────────────────────────
// Add / Edit / Remove: solo reconcilian tras confirmación del servidor
// ──────────────────────────────────────────────────────────────────────────────

func TestAdd_FalloDejaEstadoIntacto(t *testing.T) {
	store, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Errors:  []dto.FieldErrorDTO{{Field: "amount", Message: "debe ser mayor o igual a 0"}},
		})
	}))

	_, err := store.Add(context.Background(), dto.CreateDealRequest{Name: "malo"})
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "amount", apiErr.Fields[0].Field)

	assert.Empty(t, store.Deals(), "en fallo el estado local no se toca")
	assert.Error(t, store.Err())
}

func TestAdd_ExitoAgregaALaLista(t *testing.T) {
	store, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusCreated, dealJSON("d9", "nuevo"))
	}))

	created, err := store.Add(context.Background(), dto.CreateDealRequest{Name: "nuevo"})
	require.NoError(t, err)
	assert.Equal(t, "d9", created.ID)

	deals := store.Deals()
	require.Len(t, deals, 1)
	assert.Equal(t, "d9", deals[0].ID)
	assert.NoError(t, store.Err())
}

func TestEdit_ReconciliaPorID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/deals", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, listBody(dealJSON("d1", "uno"), dealJSON("d2", "dos")))
	})
	mux.HandleFunc("PUT /api/deals/d2", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, dealJSON("d2", "dos renombrado"))
	})
	store, _ := newStore(t, mux)

	require.NoError(t, store.Load(context.Background(), client.DealFilter{}))

	nombre := "dos renombrado"
	_, err := store.Edit(context.Background(), "d2", dto.UpdateDealRequest{Name: &nombre})
	require.NoError(t, err)

	deals := store.Deals()
	require.Len(t, deals, 2)
	assert.Equal(t, "uno", deals[0].Name)
	assert.Equal(t, "dos renombrado", deals[1].Name)
}

func TestRemove_QuitaDeLaLista(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/deals", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, listBody(dealJSON("d1", "uno"), dealJSON("d2", "dos")))
	})
	mux.HandleFunc("DELETE /api/deals/d1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	store, _ := newStore(t, mux)

	require.NoError(t, store.Load(context.Background(), client.DealFilter{}))
	require.NoError(t, store.Remove(context.Background(), "d1"))

	deals := store.Deals()
	require.Len(t, deals, 1)
	assert.Equal(t, "d2", deals[0].ID)
}

func TestRemove_404DejaLista(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/deals", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, listBody(dealJSON("d1", "uno")))
	})
	mux.HandleFunc("DELETE /api/deals/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "deal no encontrado"})
	})
	store, _ := newStore(t, mux)

	require.NoError(t, store.Load(context.Background(), client.DealFilter{}))
	err := store.Remove(context.Background(), "otro")
	require.Error(t, err)

	assert.Len(t, store.Deals(), 1)
	assert.Error(t, store.Err())
}
