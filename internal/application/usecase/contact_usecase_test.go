package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/usecase"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// Fakes mínimos: solo lo que ContactUseCase toca.

type stubContactRepo struct {
	contacts map[string]*entity.Contact
}

func (r *stubContactRepo) Create(c *entity.Contact) error {
	r.contacts[c.ID] = c
	return nil
}

func (r *stubContactRepo) GetByID(id string) (*entity.Contact, error) {
	c, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *stubContactRepo) List(limit, offset int) ([]*entity.Contact, error) {
	var out []*entity.Contact
	for _, c := range r.contacts {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubContactRepo) Update(c *entity.Contact) error {
	r.contacts[c.ID] = c
	return nil
}

func (r *stubContactRepo) AppendDealID(contactID, dealID string) error { return nil }
func (r *stubContactRepo) RemoveDealID(contactID, dealID string) error { return nil }

type stubCompanyRepo struct {
	companies map[string]*entity.Company
}

func (r *stubCompanyRepo) Create(c *entity.Company) error { r.companies[c.ID] = c; return nil }

func (r *stubCompanyRepo) GetByID(id string) (*entity.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *stubCompanyRepo) List(limit, offset int) ([]*entity.Company, error) { return nil, nil }
func (r *stubCompanyRepo) Update(c *entity.Company) error                    { return nil }
func (r *stubCompanyRepo) AppendDealID(companyID, dealID string) error       { return nil }
func (r *stubCompanyRepo) RemoveDealID(companyID, dealID string) error       { return nil }

func (r *stubCompanyRepo) AppendContactID(companyID, contactID string) error {
	c := r.companies[companyID]
	c.ContactIDs = append(c.ContactIDs, contactID)
	return nil
}

func (r *stubCompanyRepo) RemoveContactID(companyID, contactID string) error {
	c, ok := r.companies[companyID]
	if !ok {
		return nil
	}
	out := c.ContactIDs[:0]
	for _, id := range c.ContactIDs {
		if id != contactID {
			out = append(out, id)
		}
	}
	c.ContactIDs = out
	return nil
}

type stubTx struct {
	companyRepo *stubCompanyRepo
	contactRepo *stubContactRepo
}

func (s *stubTx) Run(ctx context.Context, fn func(
	dealRepo repository.DealRepository,
	companyRepo repository.CompanyRepository,
	contactRepo repository.ContactRepository,
) error) error {
	return fn(nil, s.companyRepo, s.contactRepo)
}

func newContactFixture() (*usecase.ContactUseCase, *stubCompanyRepo, *stubContactRepo) {
	companyRepo := &stubCompanyRepo{companies: map[string]*entity.Company{
		"company-1": {ID: "company-1", Name: "Acme Corp"},
		"company-2": {ID: "company-2", Name: "Globex"},
	}}
	contactRepo := &stubContactRepo{contacts: make(map[string]*entity.Contact)}
	uc := usecase.NewContactUseCase(&stubTx{companyRepo: companyRepo, contactRepo: contactRepo}, contactRepo)
	return uc, companyRepo, contactRepo
}

func TestContactCreate_VinculaEmpresa(t *testing.T) {
	uc, companyRepo, _ := newContactFixture()

	companyID := "company-1"
	resp, err := uc.Create(context.Background(), dto.CreateContactRequest{
		Name:        "Laura Gómez",
		ContactType: entity.ContactTypeBusiness,
		CompanyID:   &companyID,
	})
	require.NoError(t, err)

	assert.Contains(t, companyRepo.companies["company-1"].ContactIDs, resp.ID,
		"la empresa debe referenciar el contacto nuevo")
}

func TestContactCreate_EmpresaInexistente_Rechazado(t *testing.T) {
	uc, _, contactRepo := newContactFixture()

	companyID := "no-existe"
	_, err := uc.Create(context.Background(), dto.CreateContactRequest{
		Name:        "Laura Gómez",
		ContactType: entity.ContactTypeBusiness,
		CompanyID:   &companyID,
	})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
	assert.Empty(t, contactRepo.contacts)
}

func TestContactCreate_TipoInvalido_Rechazado(t *testing.T) {
	uc, _, _ := newContactFixture()

	_, err := uc.Create(context.Background(), dto.CreateContactRequest{
		Name:        "Laura Gómez",
		ContactType: "corporativo",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Cambiar la empresa vinculada mueve el contacto entre los índices contact_ids.
func TestContactUpdate_CambioDeEmpresa_MueveIndice(t *testing.T) {
	uc, companyRepo, _ := newContactFixture()

	companyID := "company-1"
	created, err := uc.Create(context.Background(), dto.CreateContactRequest{
		Name:        "Laura Gómez",
		ContactType: entity.ContactTypeBusiness,
		CompanyID:   &companyID,
	})
	require.NoError(t, err)

	nueva := "company-2"
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateContactRequest{CompanyID: &nueva})
	require.NoError(t, err)

	assert.NotContains(t, companyRepo.companies["company-1"].ContactIDs, created.ID)
	assert.Contains(t, companyRepo.companies["company-2"].ContactIDs, created.ID)
}

// CompanyID vacío en el update desvincula al contacto de su empresa.
func TestContactUpdate_EmpresaVacia_Desvincula(t *testing.T) {
	uc, companyRepo, contactRepo := newContactFixture()

	companyID := "company-1"
	created, err := uc.Create(context.Background(), dto.CreateContactRequest{
		Name:        "Laura Gómez",
		ContactType: entity.ContactTypeBusiness,
		CompanyID:   &companyID,
	})
	require.NoError(t, err)

	vacia := ""
	got, err := uc.Update(context.Background(), created.ID, dto.UpdateContactRequest{CompanyID: &vacia})
	require.NoError(t, err)

	assert.Nil(t, got.CompanyID)
	assert.Empty(t, companyRepo.companies["company-1"].ContactIDs)
	assert.Nil(t, contactRepo.contacts[created.ID].CompanyID)
}
