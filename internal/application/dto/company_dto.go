package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Industry string `json:"industry" validate:"omitempty,max=100"`
	Size     string `json:"size" validate:"omitempty,oneof=small medium large"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UpdateCompanyRequest actualización parcial de una empresa.
// DealIDs y ContactIDs no son editables: los mantiene el sistema.
type UpdateCompanyRequest struct {
	Name     *string `json:"name"`
	Industry *string `json:"industry"`
	Size     *string `json:"size"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

// CompanyResponse salida de una empresa, incluye los índices denormalizados.
type CompanyResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Industry   string    `json:"industry"`
	Size       string    `json:"size"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	DealIDs    []string  `json:"deal_ids"`
	ContactIDs []string  `json:"contact_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CompanyListResponse listado paginado de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
