package entity

import "time"

// Company representa una organización cliente (cuentas B2B).
// DealIDs y ContactIDs son índices denormalizados: la fuente de verdad es
// siempre Deal.CompanyID / Contact.CompanyID. Se mantienen en la misma
// transacción que la escritura del deal o contacto que los referencia.
type Company struct {
	ID         string
	Name       string
	Industry   string
	Size       string // small, medium, large
	Address    string
	Phone      string
	Email      string
	DealIDs    []string
	ContactIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
