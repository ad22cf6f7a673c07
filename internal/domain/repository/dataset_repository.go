package repository

import (
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
)

// DatasetRepository puerto de lectura del dataset cargado al inicio.
// Las colecciones se devuelven en el orden de carga y no deben modificarse.
type DatasetRepository interface {
	Get(kind entity.Kind) []entity.FieldReader
	Entities(kind entity.Kind) []entity.Entity

	Units() []*entity.Unit
	Groups() []*entity.Group
	Nomenclatures() []*entity.Nomenclature
	Receipts() []*entity.Receipt
	Storages() []*entity.Storage
	Transactions() []*entity.Transaction

	NomenclatureByCode(code string) (*entity.Nomenclature, error)
	UnitByCode(code string) (*entity.Unit, error)

	// Counts cantidad de registros por tipo.
	Counts() map[entity.Kind]int
}
