package repository

import "github.com/jhoicas/crm-api/internal/domain/entity"

// DealFilter criterios de listado. Los campos vacíos no filtran; los
// provistos se combinan en conjunción. Search compara sin distinguir
// mayúsculas contra el nombre del deal y el de la empresa/contacto vinculados.
type DealFilter struct {
	OwnerID  string
	Stage    string
	DealType string
	Search   string
	Limit    int
	Offset   int
}

// DealRepository define el puerto de persistencia para Deal.
// GetByID devuelve (nil, nil) si el deal no existe.
// Delete devuelve cuántas filas afectó: borrar un id ausente no es error.
type DealRepository interface {
	Create(deal *entity.Deal) error
	GetByID(id string) (*entity.Deal, error)
	List(filter DealFilter) ([]*entity.Deal, error)
	Update(deal *entity.Deal) error
	Delete(id string) (int64, error)
}
