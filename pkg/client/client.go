// Package client implementa un cliente HTTP del API y una capa de estado
// en memoria para la lista de deals (ver DealStore).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/crm-api/internal/application/dto"
)

// Session identidad autenticada del cliente. Se pasa explícitamente al
// construir el Client en lugar de leerse de un almacenamiento ambiental.
type Session struct {
	Token  string
	UserID string
	Email  string
	Role   string
}

// APIError error devuelto por el servidor, con el código de negocio y los
// errores de campo cuando aplica (400 de validación).
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []dto.FieldErrorDTO
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client cliente REST del API. Todas las llamadas envían el bearer token de
// la sesión y decodifican errores a *APIError.
type Client struct {
	baseURL string
	http    *http.Client
	session Session
}

// New construye un cliente contra baseURL (ej. "http://localhost:8080").
// Si httpClient es nil se usa http.DefaultClient.
func New(baseURL string, session Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient, session: session}
}

// Login autentica contra el API y devuelve un cliente con la sesión resultante.
func Login(ctx context.Context, baseURL string, req dto.LoginRequest, httpClient *http.Client) (*Client, error) {
	c := New(baseURL, Session{}, httpClient)
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.session = Session{
		Token:  resp.Token,
		UserID: resp.User.ID,
		Email:  resp.User.Email,
		Role:   resp.User.Role,
	}
	return c, nil
}

// Session devuelve la sesión activa.
func (c *Client) Session() Session { return c.session }

// ListDeals lista deals con los filtros dados.
func (c *Client) ListDeals(ctx context.Context, filter DealFilter) (*dto.DealListResponse, error) {
	var resp dto.DealListResponse
	path := "/api/deals" + filter.query()
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDeal obtiene un deal por id.
func (c *Client) GetDeal(ctx context.Context, id string) (*dto.DealResponse, error) {
	var resp dto.DealResponse
	if err := c.do(ctx, http.MethodGet, "/api/deals/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateDeal crea un deal.
func (c *Client) CreateDeal(ctx context.Context, req dto.CreateDealRequest) (*dto.DealResponse, error) {
	var resp dto.DealResponse
	if err := c.do(ctx, http.MethodPost, "/api/deals", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateDeal aplica una actualización parcial a un deal.
func (c *Client) UpdateDeal(ctx context.Context, id string, req dto.UpdateDealRequest) (*dto.DealResponse, error) {
	var resp dto.DealResponse
	if err := c.do(ctx, http.MethodPut, "/api/deals/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteDeal elimina un deal. 204 se trata como éxito.
func (c *Client) DeleteDeal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/deals/"+url.PathEscape(id), nil, nil)
}

// DealFilter filtros de listado, se serializan como query params.
type DealFilter struct {
	OwnerID  string
	Stage    string
	DealType string
	Search   string
	Limit    int
	Offset   int
}

func (f DealFilter) query() string {
	q := url.Values{}
	if f.OwnerID != "" {
		q.Set("owner_id", f.OwnerID)
	}
	if f.Stage != "" {
		q.Set("stage", f.Stage)
	}
	if f.DealType != "" {
		q.Set("deal_type", f.DealType)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// do ejecuta la petición, adjunta el bearer token y decodifica la respuesta.
// Respuestas no-2xx se convierten a *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "UNKNOWN"}
		var e dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil {
			apiErr.Code = e.Code
			apiErr.Message = e.Message
			apiErr.Fields = e.Errors
		}
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
