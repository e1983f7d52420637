package client

import (
	"context"
	"sync"

	"github.com/jhoicas/crm-api/internal/application/dto"
)

// DealStore estado en memoria de la lista de deals del cliente.
//
// Load reemplaza la lista con el resultado del fetch. Cada Load lleva un
// número de secuencia: si mientras estaba en vuelo se emitió otro Load más
// reciente, la respuesta vieja se descarta y no pisa el estado (gana el
// último Load emitido). Add/Edit/Remove llaman al API y solo tocan el estado
// local si el servidor confirmó; en fallo el estado queda intacto y se marca
// el error.
type DealStore struct {
	api *Client

	mu      sync.Mutex
	deals   []dto.DealResponse
	loading bool
	lastErr error
	loadSeq uint64 // secuencia del último Load emitido
}

// NewDealStore construye el store sobre un cliente ya autenticado.
func NewDealStore(api *Client) *DealStore {
	return &DealStore{api: api}
}

// Deals devuelve una copia de la lista actual.
func (s *DealStore) Deals() []dto.DealResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.DealResponse, len(s.deals))
	copy(out, s.deals)
	return out
}

// Loading indica si hay un Load en vuelo.
func (s *DealStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err devuelve el último error registrado, o nil.
func (s *DealStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Load recarga la lista desde el API. Si durante el fetch se emitió un Load
// más reciente, el resultado (éxito o error) se descarta sin tocar el estado.
func (s *DealStore) Load(ctx context.Context, filter DealFilter) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.loading = true
	s.mu.Unlock()

	resp, err := s.api.ListDeals(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq {
		// respuesta obsoleta: un Load posterior ya es el vigente
		return nil
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	s.deals = resp.Items
	return nil
}

// Add crea el deal en el API y lo agrega a la lista local si el servidor
// confirmó. En fallo el estado local no cambia.
func (s *DealStore) Add(ctx context.Context, req dto.CreateDealRequest) (*dto.DealResponse, error) {
	created, err := s.api.CreateDeal(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	s.lastErr = nil
	s.deals = append(s.deals, *created)
	return created, nil
}

// Edit actualiza el deal en el API y reconcilia la entrada local por id.
func (s *DealStore) Edit(ctx context.Context, id string, req dto.UpdateDealRequest) (*dto.DealResponse, error) {
	updated, err := s.api.UpdateDeal(ctx, id, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	s.lastErr = nil
	for i := range s.deals {
		if s.deals[i].ID == id {
			s.deals[i] = *updated
			break
		}
	}
	return updated, nil
}

// Remove elimina el deal en el API y lo quita de la lista local.
func (s *DealStore) Remove(ctx context.Context, id string) error {
	err := s.api.DeleteDeal(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	for i := range s.deals {
		if s.deals[i].ID == id {
			s.deals = append(s.deals[:i], s.deals[i+1:]...)
			break
		}
	}
	return nil
}
