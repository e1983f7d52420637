package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo implementación de ContactRepository sobre PostgreSQL (usable con pool o tx).
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

// Create persiste un nuevo contacto.
func (r *ContactRepo) Create(contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (id, name, email, phone, contact_type, company_id, deal_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	dealIDs, err := marshalJSONB(contact.DealIDs)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(context.Background(), query,
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.ContactType,
		contact.CompanyID, dealIDs, contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID obtiene un contacto por ID. Devuelve (nil, nil) si no existe.
func (r *ContactRepo) GetByID(id string) (*entity.Contact, error) {
	query := `
		SELECT id, name, email, phone, contact_type, company_id, deal_ids, created_at, updated_at
		FROM contacts WHERE id = $1`
	c, err := scanContact(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// List lista contactos con paginación.
func (r *ContactRepo) List(limit, offset int) ([]*entity.Contact, error) {
	query := `
		SELECT id, name, email, phone, contact_type, company_id, deal_ids, created_at, updated_at
		FROM contacts ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos del contacto. deal_ids se mantiene con Append/Remove.
func (r *ContactRepo) Update(contact *entity.Contact) error {
	query := `
		UPDATE contacts SET name = $2, email = $3, phone = $4, contact_type = $5,
			company_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.ContactType,
		contact.CompanyID, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// AppendDealID agrega dealID al índice deal_ids si aún no está presente.
func (r *ContactRepo) AppendDealID(contactID, dealID string) error {
	query := `
		UPDATE contacts SET deal_ids = deal_ids || to_jsonb($2::text), updated_at = now()
		WHERE id = $1 AND NOT deal_ids @> to_jsonb($2::text)`
	if _, err := r.q.Exec(context.Background(), query, contactID, dealID); err != nil {
		return fmt.Errorf("append deal_ids: %w", err)
	}
	return nil
}

// RemoveDealID quita dealID del índice deal_ids.
func (r *ContactRepo) RemoveDealID(contactID, dealID string) error {
	query := `UPDATE contacts SET deal_ids = deal_ids - $2, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, contactID, dealID); err != nil {
		return fmt.Errorf("remove deal_ids: %w", err)
	}
	return nil
}

func scanContact(row pgxScanner) (*entity.Contact, error) {
	var c entity.Contact
	var dealIDs []byte
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.ContactType, &c.CompanyID,
		&dealIDs, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(dealIDs, &c.DealIDs); err != nil {
		return nil, err
	}
	return &c, nil
}
