package repository

import "github.com/jhoicas/crm-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para Company.
// AppendDealID / RemoveDealID mantienen el índice denormalizado deal_ids;
// deben ejecutarse en la misma transacción que la escritura del deal.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
	Update(company *entity.Company) error
	AppendDealID(companyID, dealID string) error
	RemoveDealID(companyID, dealID string) error
	AppendContactID(companyID, contactID string) error
	RemoveContactID(companyID, contactID string) error
}
