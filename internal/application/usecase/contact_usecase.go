package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// ContactTxRunner ejecuta una función dentro de una transacción de BD.
// Se usa para que el alta o el cambio de empresa de un contacto y el
// mantenimiento de Company.contact_ids sean una sola unidad atómica.
type ContactTxRunner interface {
	Run(ctx context.Context, fn func(
		dealRepo repository.DealRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
	) error) error
}

// ContactUseCase casos de uso CRUD para contactos.
type ContactUseCase struct {
	tx          ContactTxRunner
	contactRepo repository.ContactRepository
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(tx ContactTxRunner, contactRepo repository.ContactRepository) *ContactUseCase {
	return &ContactUseCase{tx: tx, contactRepo: contactRepo}
}

// Create crea un contacto. Si viene vinculado a una empresa, verifica que
// exista y agrega el contacto a Company.contact_ids en la misma transacción.
func (uc *ContactUseCase) Create(ctx context.Context, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	if in.ContactType != entity.ContactTypeIndividual && in.ContactType != entity.ContactTypeBusiness {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	contact := &entity.Contact{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		ContactType: in.ContactType,
		CompanyID:   in.CompanyID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.tx.Run(ctx, func(
		_ repository.DealRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
	) error {
		if contact.CompanyID != nil {
			company, err := companyRepo.GetByID(*contact.CompanyID)
			if err != nil {
				return err
			}
			if company == nil {
				return domain.ErrCompanyNotFound
			}
		}
		if err := contactRepo.Create(contact); err != nil {
			return err
		}
		if contact.CompanyID != nil {
			return companyRepo.AppendContactID(*contact.CompanyID, contact.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

// GetByID obtiene un contacto por ID. Devuelve (nil, nil) si no existe.
func (uc *ContactUseCase) GetByID(id string) (*dto.ContactResponse, error) {
	contact, err := uc.contactRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, nil
	}
	return toContactResponse(contact), nil
}

// List lista contactos con paginación.
func (uc *ContactUseCase) List(limit, offset int) (*dto.ContactListResponse, error) {
	list, err := uc.contactRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ContactResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toContactResponse(c))
	}
	return &dto.ContactListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update aplica una actualización parcial. Si cambia la empresa vinculada,
// mueve el índice contact_ids dentro de la transacción.
// Devuelve (nil, nil) si no existe.
func (uc *ContactUseCase) Update(ctx context.Context, id string, in dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	contact, err := uc.contactRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, nil
	}
	prevCompany := contact.CompanyID
	if in.Name != nil {
		contact.Name = *in.Name
	}
	if in.Email != nil {
		contact.Email = *in.Email
	}
	if in.Phone != nil {
		contact.Phone = *in.Phone
	}
	if in.ContactType != nil {
		if *in.ContactType != entity.ContactTypeIndividual && *in.ContactType != entity.ContactTypeBusiness {
			return nil, domain.ErrInvalidInput
		}
		contact.ContactType = *in.ContactType
	}
	if in.CompanyID != nil {
		if *in.CompanyID == "" {
			contact.CompanyID = nil
		} else {
			contact.CompanyID = in.CompanyID
		}
	}
	contact.UpdatedAt = time.Now()

	err = uc.tx.Run(ctx, func(
		_ repository.DealRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
	) error {
		if !sameCompanyRef(prevCompany, contact.CompanyID) {
			if contact.CompanyID != nil {
				company, err := companyRepo.GetByID(*contact.CompanyID)
				if err != nil {
					return err
				}
				if company == nil {
					return domain.ErrCompanyNotFound
				}
			}
			if prevCompany != nil {
				if err := companyRepo.RemoveContactID(*prevCompany, contact.ID); err != nil {
					return err
				}
			}
			if contact.CompanyID != nil {
				if err := companyRepo.AppendContactID(*contact.CompanyID, contact.ID); err != nil {
					return err
				}
			}
		}
		return contactRepo.Update(contact)
	})
	if err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

func sameCompanyRef(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func toContactResponse(c *entity.Contact) *dto.ContactResponse {
	if c == nil {
		return nil
	}
	return &dto.ContactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		ContactType: c.ContactType,
		CompanyID:   c.CompanyID,
		DealIDs:     c.DealIDs,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
