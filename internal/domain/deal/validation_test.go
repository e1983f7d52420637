package deal_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/deal"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// dealB2BValido devuelve un deal B2B que pasa todas las validaciones.
// Los tests lo rompen campo a campo.
func dealB2BValido() *entity.Deal {
	return &entity.Deal{
		ID:                 "deal-1",
		Name:               "Contrato Acme",
		DealType:           entity.DealTypeB2B,
		Stage:              entity.StageProspecting,
		Status:             entity.StatusOpen,
		OwnerID:            "user-1",
		ContactID:          "contact-1",
		Amount:             decimal.NewFromInt(5000),
		Currency:           "USD",
		ClosingProbability: 25,
		B2B:                &entity.B2BInfo{CompanyID: "company-1"},
	}
}

func dealB2CValido() *entity.Deal {
	d := dealB2BValido()
	d.DealType = entity.DealTypeB2C
	d.B2B = nil
	lv := decimal.NewFromInt(12000)
	d.B2C = &entity.B2CInfo{LifetimeValue: lv}
	return d
}

func TestValidateDeal_B2BValido_SinErrores(t *testing.T) {
	assert.NoError(t, deal.ValidateDeal(dealB2BValido(), ""))
}

func TestValidateDeal_B2CValido_SinErrores(t *testing.T) {
	assert.NoError(t, deal.ValidateDeal(dealB2CValido(), ""))
}

// El validador debe acumular TODAS las violaciones, no solo la primera.
func TestValidateDeal_AcumulaTodasLasViolaciones(t *testing.T) {
	d := dealB2BValido()
	d.Name = "   "
	d.Amount = decimal.NewFromInt(-1)
	d.Stage = "inventada"
	d.ContactID = ""
	d.ClosingProbability = 150

	err := deal.ValidateDeal(d, "")
	require.Error(t, err)

	ve, ok := domain.AsValidationError(err)
	require.True(t, ok, "el error debe ser un *ValidationError")

	campos := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		campos = append(campos, f.Field)
	}
	assert.Contains(t, campos, "name")
	assert.Contains(t, campos, "amount")
	assert.Contains(t, campos, "stage")
	assert.Contains(t, campos, "contact_id")
	assert.Contains(t, campos, "closing_probability")
	assert.Len(t, ve.Fields, 5, "debe reportar exactamente las 5 violaciones")
}

func TestValidateDeal_B2BSinEmpresa_Rechazado(t *testing.T) {
	d := dealB2BValido()
	d.B2B = nil

	err := deal.ValidateDeal(d, "")
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "company_id", ve.Fields[0].Field)
}

func TestValidateDeal_B2CConEmpresa_Rechazado(t *testing.T) {
	d := dealB2CValido()
	// Referencia a empresa adjunta a un deal B2C: debe reportarse, no ignorarse.
	d.B2B = &entity.B2BInfo{CompanyID: "company-1"}

	err := deal.ValidateDeal(d, "")
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "company_id", ve.Fields[0].Field)
}

func TestValidateDeal_DealTypeDesconocido_Rechazado(t *testing.T) {
	d := dealB2BValido()
	d.DealType = "B2G"

	err := deal.ValidateDeal(d, "")
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "deal_type", ve.Fields[0].Field)
}

func TestValidateDeal_MonedaInvalida_Rechazada(t *testing.T) {
	for _, moneda := range []string{"usd", "US", "USDX", "U$D"} {
		d := dealB2BValido()
		d.Currency = moneda

		err := deal.ValidateDeal(d, "")
		ve, ok := domain.AsValidationError(err)
		require.True(t, ok, "moneda %q debe ser rechazada", moneda)
		assert.Equal(t, "currency", ve.Fields[0].Field)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados terminales: won y lost no admiten transición de salida.
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateDeal_EstadoTerminal_NoAdmiteSalida(t *testing.T) {
	for _, terminal := range []string{entity.StatusWon, entity.StatusLost} {
		d := dealB2BValido()
		d.Status = entity.StatusOpen

		err := deal.ValidateDeal(d, terminal)
		ve, ok := domain.AsValidationError(err)
		require.True(t, ok, "reabrir un deal %s debe ser rechazado", terminal)
		assert.Equal(t, "status", ve.Fields[0].Field)
	}
}

func TestValidateDeal_EstadoTerminal_MismoEstadoPermitido(t *testing.T) {
	// Actualizar otros campos de un deal ganado sin tocar status es válido.
	d := dealB2BValido()
	d.Status = entity.StatusWon

	assert.NoError(t, deal.ValidateDeal(d, entity.StatusWon))
}

func TestValidateDeal_OpenAWon_Permitido(t *testing.T) {
	d := dealB2BValido()
	d.Status = entity.StatusWon

	assert.NoError(t, deal.ValidateDeal(d, entity.StatusOpen))
}

func TestValidateDeal_EtapasSinOrdenForzado(t *testing.T) {
	// Cualquier etapa válida es aceptable en cualquier momento.
	for _, etapa := range entity.Stages {
		d := dealB2BValido()
		d.Stage = etapa
		assert.NoError(t, deal.ValidateDeal(d, ""), "etapa %s debe ser válida", etapa)
	}
}
