package deals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	dealrules "github.com/jhoicas/crm-api/internal/domain/deal"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// DealUseCase casos de uso CRUD para deals. Las lecturas van directo al
// repositorio; toda escritura pasa por el TxRunner porque el insert/delete
// del deal y la actualización de deal_ids en Company/Contact deben
// confirmarse juntos.
type DealUseCase struct {
	tx       TxRunner
	dealRepo repository.DealRepository
}

// NewDealUseCase construye el caso de uso.
func NewDealUseCase(tx TxRunner, dealRepo repository.DealRepository) *DealUseCase {
	return &DealUseCase{tx: tx, dealRepo: dealRepo}
}

// Create valida y persiste un deal nuevo. Status inicia en open. Para deals
// B2B el id del deal se agrega a Company.deal_ids en la misma transacción;
// el id también se agrega a Contact.deal_ids.
func (uc *DealUseCase) Create(ctx context.Context, ownerID string, in dto.CreateDealRequest) (*dto.DealResponse, error) {
	now := time.Now()
	d := buildDeal(in)
	d.ID = uuid.New().String()
	d.OwnerID = ownerID
	d.Status = entity.StatusOpen
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := validateCreate(d, in); err != nil {
		return nil, err
	}

	err := uc.tx.Run(ctx, func(
		dealRepo repository.DealRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
	) error {
		contact, err := contactRepo.GetByID(d.ContactID)
		if err != nil {
			return err
		}
		if contact == nil {
			return domain.ErrContactNotFound
		}
		if companyID := d.CompanyID(); companyID != "" {
			company, err := companyRepo.GetByID(companyID)
			if err != nil {
				return err
			}
			if company == nil {
				return domain.ErrCompanyNotFound
			}
		}
		if err := dealRepo.Create(d); err != nil {
			return err
		}
		if companyID := d.CompanyID(); companyID != "" {
			if err := companyRepo.AppendDealID(companyID, d.ID); err != nil {
				return err
			}
		}
		return contactRepo.AppendDealID(d.ContactID, d.ID)
	})
	if err != nil {
		return nil, err
	}
	return toDealResponse(d), nil
}

// GetByID obtiene un deal por ID. Devuelve (nil, nil) si no existe.
func (uc *DealUseCase) GetByID(ctx context.Context, id string) (*dto.DealResponse, error) {
	d, err := uc.dealRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return toDealResponse(d), nil
}

// List lista deals aplicando el filtro en conjunción.
func (uc *DealUseCase) List(ctx context.Context, filter repository.DealFilter) (*dto.DealListResponse, error) {
	list, err := uc.dealRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DealResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDealResponse(d))
	}
	return &dto.DealListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Update aplica una actualización parcial: mezcla solo los campos provistos
// sobre el registro existente y revalida el resultado completo, no solo el
// delta, para que un update no produzca una combinación inválida (por
// ejemplo cambiar deal_type sin limpiar company_id). Si el vínculo con la
// empresa cambia, el índice deal_ids se mueve en la misma transacción.
// Devuelve (nil, nil) si el deal no existe.
func (uc *DealUseCase) Update(ctx context.Context, id string, in dto.UpdateDealRequest) (*dto.DealResponse, error) {
	existing, err := uc.dealRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	merged := mergeDeal(existing, in)
	merged.UpdatedAt = time.Now()

	if err := dealrules.ValidateDeal(merged, existing.Status); err != nil {
		return nil, err
	}

	prevCompany := existing.CompanyID()
	newCompany := merged.CompanyID()

	err = uc.tx.Run(ctx, func(
		dealRepo repository.DealRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
	) error {
		if merged.ContactID != existing.ContactID {
			contact, err := contactRepo.GetByID(merged.ContactID)
			if err != nil {
				return err
			}
			if contact == nil {
				return domain.ErrContactNotFound
			}
		}
		if newCompany != prevCompany {
			if newCompany != "" {
				company, err := companyRepo.GetByID(newCompany)
				if err != nil {
					return err
				}
				if company == nil {
					return domain.ErrCompanyNotFound
				}
			}
			if prevCompany != "" {
				if err := companyRepo.RemoveDealID(prevCompany, id); err != nil {
					return err
				}
			}
			if newCompany != "" {
				if err := companyRepo.AppendDealID(newCompany, id); err != nil {
					return err
				}
			}
		}
		if merged.ContactID != existing.ContactID {
			if err := contactRepo.RemoveDealID(existing.ContactID, id); err != nil {
				return err
			}
			if err := contactRepo.AppendDealID(merged.ContactID, id); err != nil {
				return err
			}
		}
		return dealRepo.Update(merged)
	})
	if err != nil {
		return nil, err
	}
	return toDealResponse(merged), nil
}

// Delete elimina un deal y poda sus back-references. Es idempotente: borrar
// un id ausente devuelve (false, nil), no error.
func (uc *DealUseCase) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := uc.tx.Run(ctx, func(
		dealRepo repository.DealRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
	) error {
		d, err := dealRepo.GetByID(id)
		if err != nil {
			return err
		}
		if d == nil {
			return nil // 0 filas afectadas
		}
		affected, err := dealRepo.Delete(id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}
		if companyID := d.CompanyID(); companyID != "" {
			if err := companyRepo.RemoveDealID(companyID, id); err != nil {
				return err
			}
		}
		if err := contactRepo.RemoveDealID(d.ContactID, id); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// validateCreate valida un deal recién construido. amount es obligatorio en
// creación: un payload que lo omite no equivale a monto cero, así que la
// ausencia se reporta junto con el resto de las violaciones.
func validateCreate(d *entity.Deal, in dto.CreateDealRequest) error {
	err := dealrules.ValidateDeal(d, "")
	if in.Amount != nil {
		return err
	}
	ve, ok := domain.AsValidationError(err)
	if !ok {
		ve = &domain.ValidationError{}
	}
	ve.Add("amount", "es requerido")
	return ve
}

// buildDeal arma la entidad a partir del request plano. Si el payload trae
// company_id con deal_type B2C se conserva la referencia en la variante B2B
// para que la validación la reporte como violación, en vez de descartarla
// en silencio.
func buildDeal(in dto.CreateDealRequest) *entity.Deal {
	d := &entity.Deal{
		Name:               in.Name,
		DealType:           in.DealType,
		Stage:              in.Stage,
		ContactID:          in.ContactID,
		Currency:           in.Currency,
		ClosingProbability: in.ClosingProbability,
		LeadScore:          in.LeadScore,
		InternalComments:   in.InternalComments,
		Documents:          documentsFromDTO(in.Documents),
		FollowUps:          followUpsFromDTO(in.FollowUps),
	}
	if in.Amount != nil {
		d.Amount = *in.Amount
	}
	if d.Currency == "" {
		d.Currency = "USD"
	}
	if in.DealType == entity.DealTypeB2C {
		d.B2C = &entity.B2CInfo{LifetimeValue: in.LifetimeValue}
	}
	if in.DealType == entity.DealTypeB2B || in.CompanyID != "" {
		d.B2B = &entity.B2BInfo{
			CompanyID:      in.CompanyID,
			Sector:         in.Sector,
			ContractType:   in.ContractType,
			DecisionMakers: in.DecisionMakers,
		}
	}
	return d
}

// mergeDeal clona el registro existente y aplica solo los campos provistos.
// La variante B2B/B2C se reconstruye según el deal_type resultante.
func mergeDeal(existing *entity.Deal, in dto.UpdateDealRequest) *entity.Deal {
	merged := *existing
	merged.InternalComments = append([]string(nil), existing.InternalComments...)
	merged.Documents = append([]entity.Document(nil), existing.Documents...)
	merged.FollowUps = append([]entity.FollowUp(nil), existing.FollowUps...)

	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.DealType != nil {
		merged.DealType = *in.DealType
	}
	if in.Stage != nil {
		merged.Stage = *in.Stage
	}
	if in.Status != nil {
		merged.Status = *in.Status
	}
	if in.ContactID != nil {
		merged.ContactID = *in.ContactID
	}
	if in.Amount != nil {
		merged.Amount = *in.Amount
	}
	if in.Currency != nil {
		merged.Currency = *in.Currency
	}
	if in.ClosingProbability != nil {
		merged.ClosingProbability = *in.ClosingProbability
	}
	if in.LeadScore != nil {
		merged.LeadScore = *in.LeadScore
	}

	companyID := existing.CompanyID()
	sector, contractType := "", ""
	var decisionMakers []string
	if existing.B2B != nil {
		sector = existing.B2B.Sector
		contractType = existing.B2B.ContractType
		decisionMakers = existing.B2B.DecisionMakers
	}
	if in.CompanyID != nil {
		companyID = *in.CompanyID
	}
	if in.Sector != nil {
		sector = *in.Sector
	}
	if in.ContractType != nil {
		contractType = *in.ContractType
	}
	if in.DecisionMakers != nil {
		decisionMakers = in.DecisionMakers
	}

	lifetimeValue := decimalOrZero(existing)
	if in.LifetimeValue != nil {
		lifetimeValue = *in.LifetimeValue
	}

	merged.B2B = nil
	merged.B2C = nil
	if merged.DealType == entity.DealTypeB2C {
		merged.B2C = &entity.B2CInfo{LifetimeValue: lifetimeValue}
	}
	if merged.DealType == entity.DealTypeB2B || companyID != "" {
		merged.B2B = &entity.B2BInfo{
			CompanyID:      companyID,
			Sector:         sector,
			ContractType:   contractType,
			DecisionMakers: decisionMakers,
		}
	}

	// Colecciones append-only: un update solo puede agregar elementos.
	if in.AddComment != nil {
		merged.InternalComments = append(merged.InternalComments, *in.AddComment)
	}
	if in.AddDocument != nil {
		merged.Documents = append(merged.Documents, entity.Document{
			URL: in.AddDocument.URL, Name: in.AddDocument.Name, Type: in.AddDocument.Type,
		})
	}
	if in.AddFollowUp != nil {
		merged.FollowUps = append(merged.FollowUps, entity.FollowUp{
			Date: in.AddFollowUp.Date, Notes: in.AddFollowUp.Notes,
		})
	}
	return &merged
}
