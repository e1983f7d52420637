// Package deal contiene las reglas de validación de dominio para Deal.
// Son funciones puras: reciben la entidad candidata y devuelven todas las
// violaciones encontradas, nunca solo la primera.
package deal

import (
	"fmt"
	"strings"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateDeal valida un deal completo (resultado de crear, o de mezclar una
// actualización parcial sobre el registro existente). prevStatus es el estado
// persistido antes de la operación ("" en creación): si era terminal (won o
// lost) no se permite cambiarlo.
//
// No se fuerza orden de avance entre etapas: cualquier etapa puede seguir a
// cualquier otra.
func ValidateDeal(d *entity.Deal, prevStatus string) error {
	if d == nil {
		return domain.ErrInvalidInput
	}
	ve := &domain.ValidationError{}

	if strings.TrimSpace(d.Name) == "" {
		ve.Add("name", "es requerido")
	}
	if d.Amount.LessThan(decimal.Zero) {
		ve.Add("amount", "debe ser mayor o igual a 0")
	}
	if !entity.ValidStage(d.Stage) {
		ve.Add("stage", fmt.Sprintf("debe ser una de: %s", strings.Join(entity.Stages, ", ")))
	}
	if !entity.ValidStatus(d.Status) {
		ve.Add("status", "debe ser open, won o lost")
	} else if entity.TerminalStatus(prevStatus) && d.Status != prevStatus {
		ve.Add("status", fmt.Sprintf("el deal ya está %s y no admite cambios de estado", prevStatus))
	}
	if d.ContactID == "" {
		ve.Add("contact_id", "es requerido")
	}
	if d.ClosingProbability < 0 || d.ClosingProbability > 100 {
		ve.Add("closing_probability", "debe estar entre 0 y 100")
	}
	if d.Currency != "" && !validCurrencyCode(d.Currency) {
		ve.Add("currency", "debe ser un código ISO 4217 de 3 letras")
	}

	validateVariant(d, ve)

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// validateVariant comprueba la coherencia entre DealType y el grupo de
// campos variante: B2B exige empresa; B2C no admite referencia a empresa.
func validateVariant(d *entity.Deal, ve *domain.ValidationError) {
	switch d.DealType {
	case entity.DealTypeB2B:
		if d.B2C != nil {
			ve.Add("deal_type", "un deal B2B no admite campos B2C")
		}
		if d.B2B == nil || d.B2B.CompanyID == "" {
			ve.Add("company_id", "es requerido para deals B2B")
		}
	case entity.DealTypeB2C:
		if d.B2B != nil {
			ve.Add("company_id", "no se admite empresa en deals B2C")
		}
	default:
		ve.Add("deal_type", "debe ser B2B o B2C")
	}
}

func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
