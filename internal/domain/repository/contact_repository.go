package repository

import "github.com/jhoicas/crm-api/internal/domain/entity"

// ContactRepository define el puerto de persistencia para Contact.
// AppendDealID / RemoveDealID mantienen el índice denormalizado deal_ids
// con el mismo invariante transaccional que en Company.
type ContactRepository interface {
	Create(contact *entity.Contact) error
	GetByID(id string) (*entity.Contact, error)
	List(limit, offset int) ([]*entity.Contact, error)
	Update(contact *entity.Contact) error
	AppendDealID(contactID, dealID string) error
	RemoveDealID(contactID, dealID string) error
}
