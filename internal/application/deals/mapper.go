package deals

import (
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

func toDealResponse(d *entity.Deal) *dto.DealResponse {
	if d == nil {
		return nil
	}
	out := &dto.DealResponse{
		ID:                 d.ID,
		Name:               d.Name,
		DealType:           d.DealType,
		Stage:              d.Stage,
		Status:             d.Status,
		OwnerID:            d.OwnerID,
		ContactID:          d.ContactID,
		Amount:             d.Amount,
		Currency:           d.Currency,
		ClosingProbability: d.ClosingProbability,
		LeadScore:          d.LeadScore,
		InternalComments:   d.InternalComments,
		Documents:          documentsToDTO(d.Documents),
		FollowUps:          followUpsToDTO(d.FollowUps),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.B2B != nil {
		out.CompanyID = d.B2B.CompanyID
		out.Sector = d.B2B.Sector
		out.ContractType = d.B2B.ContractType
		out.DecisionMakers = d.B2B.DecisionMakers
	}
	if d.B2C != nil {
		ltv := d.B2C.LifetimeValue
		out.LifetimeValue = &ltv
	}
	return out
}

func documentsFromDTO(in []dto.DocumentDTO) []entity.Document {
	if len(in) == 0 {
		return nil
	}
	out := make([]entity.Document, 0, len(in))
	for _, d := range in {
		out = append(out, entity.Document{URL: d.URL, Name: d.Name, Type: d.Type})
	}
	return out
}

func documentsToDTO(in []entity.Document) []dto.DocumentDTO {
	out := make([]dto.DocumentDTO, 0, len(in))
	for _, d := range in {
		out = append(out, dto.DocumentDTO{URL: d.URL, Name: d.Name, Type: d.Type})
	}
	return out
}

func followUpsFromDTO(in []dto.FollowUpDTO) []entity.FollowUp {
	if len(in) == 0 {
		return nil
	}
	out := make([]entity.FollowUp, 0, len(in))
	for _, f := range in {
		out = append(out, entity.FollowUp{Date: f.Date, Notes: f.Notes})
	}
	return out
}

func followUpsToDTO(in []entity.FollowUp) []dto.FollowUpDTO {
	out := make([]dto.FollowUpDTO, 0, len(in))
	for _, f := range in {
		out = append(out, dto.FollowUpDTO{Date: f.Date, Notes: f.Notes})
	}
	return out
}

func decimalOrZero(d *entity.Deal) decimal.Decimal {
	if d.B2C != nil {
		return d.B2C.LifetimeValue
	}
	return decimal.Zero
}
