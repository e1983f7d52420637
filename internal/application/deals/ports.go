package deals

import (
	"context"

	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la escritura del deal y el
// mantenimiento de los índices deal_ids en Company/Contact sean una sola
// unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		dealRepo repository.DealRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
	) error) error
}
