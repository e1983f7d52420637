package dto

import "time"

// CreateContactRequest entrada para crear un contacto.
type CreateContactRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Phone       string  `json:"phone"`
	ContactType string  `json:"contact_type" validate:"required,oneof=individual business"`
	CompanyID   *string `json:"company_id"`
}

// UpdateContactRequest actualización parcial de un contacto.
type UpdateContactRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	ContactType *string `json:"contact_type"`
	CompanyID   *string `json:"company_id"`
}

// ContactResponse salida de un contacto.
type ContactResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ContactType string    `json:"contact_type"`
	CompanyID   *string   `json:"company_id,omitempty"`
	DealIDs     []string  `json:"deal_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ContactListResponse listado paginado de contactos.
type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
