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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository sobre PostgreSQL (usable con pool o tx).
// deal_ids y contact_ids son arreglos JSONB de strings mantenidos con
// sentencias únicas de append/remove para que sean atómicos por sentencia.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa con índices vacíos.
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, industry, size, address, phone, email, deal_ids, contact_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	dealIDs, err := marshalJSONB(company.DealIDs)
	if err != nil {
		return err
	}
	contactIDs, err := marshalJSONB(company.ContactIDs)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.Industry, company.Size, company.Address,
		company.Phone, company.Email, dealIDs, contactIDs, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID. Devuelve (nil, nil) si no existe.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `
		SELECT id, name, industry, size, address, phone, email, deal_ids, contact_ids, created_at, updated_at
		FROM companies WHERE id = $1`
	c, err := scanCompany(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// List lista empresas con paginación.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `
		SELECT id, name, industry, size, address, phone, email, deal_ids, contact_ids, created_at, updated_at
		FROM companies ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos de la empresa. No toca los índices deal_ids ni
// contact_ids: esos se mantienen con Append*/Remove*.
func (r *CompanyRepo) Update(company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, industry = $3, size = $4, address = $5,
			phone = $6, email = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.Industry, company.Size, company.Address,
		company.Phone, company.Email, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// AppendDealID agrega dealID al índice deal_ids si aún no está presente.
func (r *CompanyRepo) AppendDealID(companyID, dealID string) error {
	return r.appendID(companyID, "deal_ids", dealID)
}

// RemoveDealID quita dealID del índice deal_ids.
func (r *CompanyRepo) RemoveDealID(companyID, dealID string) error {
	return r.removeID(companyID, "deal_ids", dealID)
}

// AppendContactID agrega contactID al índice contact_ids si aún no está presente.
func (r *CompanyRepo) AppendContactID(companyID, contactID string) error {
	return r.appendID(companyID, "contact_ids", contactID)
}

// RemoveContactID quita contactID del índice contact_ids.
func (r *CompanyRepo) RemoveContactID(companyID, contactID string) error {
	return r.removeID(companyID, "contact_ids", contactID)
}

func (r *CompanyRepo) appendID(companyID, column, id string) error {
	query := fmt.Sprintf(`
		UPDATE companies SET %s = %s || to_jsonb($2::text), updated_at = now()
		WHERE id = $1 AND NOT %s @> to_jsonb($2::text)`, column, column, column)
	if _, err := r.q.Exec(context.Background(), query, companyID, id); err != nil {
		return fmt.Errorf("append %s: %w", column, err)
	}
	return nil
}

func (r *CompanyRepo) removeID(companyID, column, id string) error {
	query := fmt.Sprintf(`
		UPDATE companies SET %s = %s - $2, updated_at = now()
		WHERE id = $1`, column, column)
	if _, err := r.q.Exec(context.Background(), query, companyID, id); err != nil {
		return fmt.Errorf("remove %s: %w", column, err)
	}
	return nil
}

func scanCompany(row pgxScanner) (*entity.Company, error) {
	var c entity.Company
	var dealIDs, contactIDs []byte
	err := row.Scan(
		&c.ID, &c.Name, &c.Industry, &c.Size, &c.Address, &c.Phone, &c.Email,
		&dealIDs, &contactIDs, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(dealIDs, &c.DealIDs); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(contactIDs, &c.ContactIDs); err != nil {
		return nil, err
	}
	return &c, nil
}
