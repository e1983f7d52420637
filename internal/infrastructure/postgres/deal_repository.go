package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DealRepository = (*DealRepo)(nil)

// DealRepo implementación del puerto DealRepository sobre PostgreSQL (usable con pool o tx).
// La variante B2B/B2C se aplana en columnas: company_id/sector/contract_type/
// decision_makers para B2B, lifetime_value para B2C; las colecciones
// append-only se guardan como JSONB.
type DealRepo struct {
	q Querier
}

// NewDealRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDealRepository(q Querier) *DealRepo {
	return &DealRepo{q: q}
}

const dealColumns = `id, name, deal_type, stage, status, owner_id, contact_id,
	company_id, sector, contract_type, decision_makers, lifetime_value,
	amount, currency, closing_probability, lead_score,
	internal_comments, documents, follow_ups, created_at, updated_at`

// Create persiste un nuevo deal.
func (r *DealRepo) Create(deal *entity.Deal) error {
	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	args, err := dealArgs(deal)
	if err != nil {
		return err
	}
	if _, err := r.q.Exec(context.Background(), query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

// GetByID obtiene un deal por ID. Devuelve (nil, nil) si no existe.
func (r *DealRepo) GetByID(id string) (*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`
	d, err := scanDeal(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

// List lista deals aplicando los criterios provistos en conjunción.
// Search compara sin distinguir mayúsculas contra el nombre del deal y los
// nombres de la empresa y el contacto vinculados.
func (r *DealRepo) List(filter repository.DealFilter) ([]*entity.Deal, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + prefixColumns("d.", dealColumns) + `
		FROM deals d
		LEFT JOIN companies co ON co.id = d.company_id
		LEFT JOIN contacts ct ON ct.id = d.contact_id
		WHERE 1=1`)
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.OwnerID != "" {
		sb.WriteString(" AND d.owner_id = " + arg(filter.OwnerID))
	}
	if filter.Stage != "" {
		sb.WriteString(" AND d.stage = " + arg(filter.Stage))
	}
	if filter.DealType != "" {
		sb.WriteString(" AND d.deal_type = " + arg(filter.DealType))
	}
	if filter.Search != "" {
		pattern := arg("%" + filter.Search + "%")
		sb.WriteString(fmt.Sprintf(" AND (d.name ILIKE %s OR co.name ILIKE %s OR ct.name ILIKE %s)", pattern, pattern, pattern))
	}
	sb.WriteString(" ORDER BY d.created_at DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Update reemplaza todos los campos del deal (la mezcla parcial se hace en el use case).
func (r *DealRepo) Update(deal *entity.Deal) error {
	query := `
		UPDATE deals SET name = $2, deal_type = $3, stage = $4, status = $5,
			owner_id = $6, contact_id = $7, company_id = $8, sector = $9,
			contract_type = $10, decision_makers = $11, lifetime_value = $12,
			amount = $13, currency = $14, closing_probability = $15, lead_score = $16,
			internal_comments = $17, documents = $18, follow_ups = $19,
			created_at = $20, updated_at = $21
		WHERE id = $1`
	args, err := dealArgs(deal)
	if err != nil {
		return err
	}
	// created_at nunca cambia en un update; se incluye para reutilizar la
	// misma construcción de args que el INSERT.
	if _, err := r.q.Exec(context.Background(), query, args...); err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	return nil
}

// Delete elimina un deal por ID y devuelve cuántas filas afectó.
func (r *DealRepo) Delete(id string) (int64, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete deal: %w", err)
	}
	return tag.RowsAffected(), nil
}

// dealArgs aplana la entidad al orden de dealColumns.
func dealArgs(deal *entity.Deal) ([]any, error) {
	var companyID *string
	var sector, contractType string
	var decisionMakers []string
	if deal.B2B != nil {
		companyID = &deal.B2B.CompanyID
		sector = deal.B2B.Sector
		contractType = deal.B2B.ContractType
		decisionMakers = deal.B2B.DecisionMakers
	}
	var lifetimeValue *decimal.Decimal
	if deal.B2C != nil {
		ltv := deal.B2C.LifetimeValue
		lifetimeValue = &ltv
	}
	makersJSON, err := marshalJSONB(decisionMakers)
	if err != nil {
		return nil, err
	}
	commentsJSON, err := marshalJSONB(deal.InternalComments)
	if err != nil {
		return nil, err
	}
	documentsJSON, err := marshalJSONB(deal.Documents)
	if err != nil {
		return nil, err
	}
	followUpsJSON, err := marshalJSONB(deal.FollowUps)
	if err != nil {
		return nil, err
	}
	return []any{
		deal.ID, deal.Name, deal.DealType, deal.Stage, deal.Status,
		deal.OwnerID, deal.ContactID, companyID, sector, contractType,
		makersJSON, lifetimeValue, deal.Amount, deal.Currency,
		deal.ClosingProbability, deal.LeadScore,
		commentsJSON, documentsJSON, followUpsJSON,
		deal.CreatedAt, deal.UpdatedAt,
	}, nil
}

// pgxScanner lo satisfacen pgx.Row y pgx.Rows.
type pgxScanner interface {
	Scan(dest ...any) error
}

// scanDeal reconstruye la entidad, incluida la variante B2B/B2C según deal_type.
func scanDeal(row pgxScanner) (*entity.Deal, error) {
	var d entity.Deal
	var companyID *string
	var sector, contractType string
	var lifetimeValue *decimal.Decimal
	var makersJSON, commentsJSON, documentsJSON, followUpsJSON []byte
	err := row.Scan(
		&d.ID, &d.Name, &d.DealType, &d.Stage, &d.Status,
		&d.OwnerID, &d.ContactID, &companyID, &sector, &contractType,
		&makersJSON, &lifetimeValue, &d.Amount, &d.Currency,
		&d.ClosingProbability, &d.LeadScore,
		&commentsJSON, &documentsJSON, &followUpsJSON,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(commentsJSON, &d.InternalComments); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(documentsJSON, &d.Documents); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(followUpsJSON, &d.FollowUps); err != nil {
		return nil, err
	}
	switch d.DealType {
	case entity.DealTypeB2B:
		info := &entity.B2BInfo{Sector: sector, ContractType: contractType}
		if companyID != nil {
			info.CompanyID = *companyID
		}
		if err := unmarshalJSONB(makersJSON, &info.DecisionMakers); err != nil {
			return nil, err
		}
		d.B2B = info
	case entity.DealTypeB2C:
		info := &entity.B2CInfo{}
		if lifetimeValue != nil {
			info.LifetimeValue = *lifetimeValue
		}
		d.B2C = info
	}
	return &d, nil
}

// prefixColumns antepone el alias de tabla a cada columna de la lista.
func prefixColumns(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
