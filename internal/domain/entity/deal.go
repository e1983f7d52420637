package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de negocio del Deal. El tipo selecciona el grupo de campos variante.
const (
	DealTypeB2B = "B2B"
	DealTypeB2C = "B2C"
)

// Etapas del pipeline de ventas, en orden.
const (
	StageProspecting   = "prospecting"
	StageQualification = "qualification"
	StageContact       = "contact"
	StageDiscovery     = "discovery"
	StageProposal      = "proposal"
	StageNegotiation   = "negotiation"
	StageClosing       = "closing"
	StageDelivery      = "delivery"
	StageUpsell        = "upsell"
)

// Stages lista las etapas del pipeline en orden. No se fuerza avance
// secuencial: cualquier etapa puede seguir a cualquier otra.
var Stages = []string{
	StageProspecting, StageQualification, StageContact, StageDiscovery,
	StageProposal, StageNegotiation, StageClosing, StageDelivery, StageUpsell,
}

// Estados del Deal, independientes de la etapa. won y lost son terminales.
const (
	StatusOpen = "open"
	StatusWon  = "won"
	StatusLost = "lost"
)

// ValidStage indica si stage pertenece al pipeline.
func ValidStage(stage string) bool {
	for _, s := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// ValidStatus indica si status es uno de los estados soportados.
func ValidStatus(status string) bool {
	return status == StatusOpen || status == StatusWon || status == StatusLost
}

// TerminalStatus indica si status es terminal (won o lost).
func TerminalStatus(status string) bool {
	return status == StatusWon || status == StatusLost
}

// B2BInfo campos exclusivos de oportunidades B2B. CompanyID es obligatorio.
type B2BInfo struct {
	CompanyID      string
	Sector         string
	ContractType   string
	DecisionMakers []string
}

// B2CInfo campos exclusivos de oportunidades B2C.
type B2CInfo struct {
	LifetimeValue decimal.Decimal
}

// Document archivo adjunto a un deal (colección append-only).
type Document struct {
	URL  string
	Name string
	Type string
}

// FollowUp recordatorio de seguimiento (colección append-only).
type FollowUp struct {
	Date  time.Time
	Notes string
}

// Deal representa una oportunidad de venta que avanza por el pipeline.
// Los campos B2B/B2C son una variante etiquetada por DealType: exactamente
// uno de los dos punteros es no-nil y debe coincidir con DealType, de modo
// que combinaciones inválidas (B2C con empresa) no sean representables.
type Deal struct {
	ID                 string
	Name               string
	DealType           string // B2B | B2C
	Stage              string // ver constantes Stage*
	Status             string // open, won, lost
	OwnerID            string
	ContactID          string
	Amount             decimal.Decimal
	Currency           string // código ISO 4217 (COP, USD, ...)
	ClosingProbability int    // 0-100
	LeadScore          int
	B2B                *B2BInfo
	B2C                *B2CInfo
	InternalComments   []string
	Documents          []Document
	FollowUps          []FollowUp
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CompanyID devuelve la empresa vinculada, o "" si el deal es B2C.
func (d *Deal) CompanyID() string {
	if d.B2B != nil {
		return d.B2B.CompanyID
	}
	return ""
}
