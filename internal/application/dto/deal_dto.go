package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentDTO archivo adjunto en el wire format.
type DocumentDTO struct {
	URL  string `json:"url" validate:"required,url"`
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"omitempty,max=50"`
}

// FollowUpDTO seguimiento en el wire format.
type FollowUpDTO struct {
	Date  time.Time `json:"date" validate:"required"`
	Notes string    `json:"notes"`
}

// CreateDealRequest entrada para crear un deal. El formato de red es plano:
// company_id, sector, etc. viajan al nivel raíz y el use case arma la
// variante B2B/B2C según deal_type. Campos JSON desconocidos se ignoran.
// Amount es puntero para distinguir "omitido" de monto cero: en creación es
// obligatorio.
type CreateDealRequest struct {
	Name               string           `json:"name" validate:"required"`
	DealType           string           `json:"deal_type" validate:"required,oneof=B2B B2C"`
	Stage              string           `json:"stage" validate:"required"`
	ContactID          string           `json:"contact_id" validate:"required"`
	CompanyID          string           `json:"company_id" validate:"omitempty"`
	Amount             *decimal.Decimal `json:"amount" validate:"required"`
	Currency           string           `json:"currency" validate:"omitempty,len=3"`
	ClosingProbability int              `json:"closing_probability" validate:"min=0,max=100"`
	LeadScore          int              `json:"lead_score"`
	Sector             string           `json:"sector"`
	ContractType       string           `json:"contract_type"`
	DecisionMakers     []string         `json:"decision_makers"`
	LifetimeValue      decimal.Decimal  `json:"lifetime_value"`
	InternalComments   []string         `json:"internal_comments"`
	Documents          []DocumentDTO    `json:"documents"`
	FollowUps          []FollowUpDTO    `json:"follow_ups"`
}

// UpdateDealRequest actualización parcial: solo los campos no-nil se aplican
// sobre el registro existente; el resultado mezclado se revalida completo.
type UpdateDealRequest struct {
	Name               *string          `json:"name"`
	DealType           *string          `json:"deal_type"`
	Stage              *string          `json:"stage"`
	Status             *string          `json:"status"`
	ContactID          *string          `json:"contact_id"`
	CompanyID          *string          `json:"company_id"`
	Amount             *decimal.Decimal `json:"amount"`
	Currency           *string          `json:"currency"`
	ClosingProbability *int             `json:"closing_probability"`
	LeadScore          *int             `json:"lead_score"`
	Sector             *string          `json:"sector"`
	ContractType       *string          `json:"contract_type"`
	DecisionMakers     []string         `json:"decision_makers"`
	LifetimeValue      *decimal.Decimal `json:"lifetime_value"`
	AddComment         *string          `json:"add_comment"`
	AddDocument        *DocumentDTO     `json:"add_document"`
	AddFollowUp        *FollowUpDTO     `json:"add_follow_up"`
}

// DealResponse salida de un deal. Los campos variantes (company_id, sector,
// lifetime_value...) se aplanan y solo aparecen para el deal_type que aplica.
type DealResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	DealType           string           `json:"deal_type"`
	Stage              string           `json:"stage"`
	Status             string           `json:"status"`
	OwnerID            string           `json:"owner_id"`
	ContactID          string           `json:"contact_id"`
	CompanyID          string           `json:"company_id,omitempty"`
	Amount             decimal.Decimal  `json:"amount"`
	Currency           string           `json:"currency"`
	ClosingProbability int              `json:"closing_probability"`
	LeadScore          int              `json:"lead_score"`
	Sector             string           `json:"sector,omitempty"`
	ContractType       string           `json:"contract_type,omitempty"`
	DecisionMakers     []string         `json:"decision_makers,omitempty"`
	LifetimeValue      *decimal.Decimal `json:"lifetime_value,omitempty"`
	InternalComments   []string         `json:"internal_comments"`
	Documents          []DocumentDTO    `json:"documents"`
	FollowUps          []FollowUpDTO    `json:"follow_ups"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// DealListResponse listado paginado de deals.
type DealListResponse struct {
	Items []DealResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
