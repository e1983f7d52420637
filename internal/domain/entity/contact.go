package entity

import "time"

// Tipos de contacto.
const (
	ContactTypeIndividual = "individual"
	ContactTypeBusiness   = "business"
)

// Contact representa una persona asociada a uno o más deals.
// DealIDs es un índice denormalizado con el mismo invariante que en Company.
type Contact struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	ContactType string  // individual | business
	CompanyID   *string // nil = sin empresa vinculada
	DealIDs     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
