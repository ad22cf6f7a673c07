// Package memory implementa los repositorios en memoria: el dataset cargado al
// inicio (inmutable), la fecha de bloqueo y los usuarios configurados.
package memory

import (
	"fmt"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
)

// Dataset colecciones ya resueltas (referencias enlazadas) en orden de carga.
type Dataset struct {
	Units         []*entity.Unit
	Groups        []*entity.Group
	Nomenclatures []*entity.Nomenclature
	Receipts      []*entity.Receipt
	Storages      []*entity.Storage
	Transactions  []*entity.Transaction
}

// DatasetRepository repositorio de solo lectura sobre un Dataset.
type DatasetRepository struct {
	data          Dataset
	nomenclatures map[string]*entity.Nomenclature
	units         map[string]*entity.Unit
}

// NewDatasetRepository indexa d por código. d no debe modificarse después.
func NewDatasetRepository(d Dataset) *DatasetRepository {
	r := &DatasetRepository{
		data:          d,
		nomenclatures: make(map[string]*entity.Nomenclature, len(d.Nomenclatures)),
		units:         make(map[string]*entity.Unit, len(d.Units)),
	}
	for _, n := range d.Nomenclatures {
		r.nomenclatures[n.UniqueCode] = n
	}
	for _, u := range d.Units {
		r.units[u.UniqueCode] = u
	}
	return r
}

var _ repository.DatasetRepository = (*DatasetRepository)(nil)

func (r *DatasetRepository) Get(kind entity.Kind) []entity.FieldReader {
	switch kind {
	case entity.KindUnit:
		return entity.Readers(r.data.Units)
	case entity.KindGroup:
		return entity.Readers(r.data.Groups)
	case entity.KindNomenclature:
		return entity.Readers(r.data.Nomenclatures)
	case entity.KindReceipt:
		return entity.Readers(r.data.Receipts)
	case entity.KindStorage:
		return entity.Readers(r.data.Storages)
	case entity.KindTransaction:
		return entity.Readers(r.data.Transactions)
	}
	return nil
}

// Entities igual que Get pero con la interfaz completa (para serializar).
func (r *DatasetRepository) Entities(kind entity.Kind) []entity.Entity {
	switch kind {
	case entity.KindUnit:
		return entities(r.data.Units)
	case entity.KindGroup:
		return entities(r.data.Groups)
	case entity.KindNomenclature:
		return entities(r.data.Nomenclatures)
	case entity.KindReceipt:
		return entities(r.data.Receipts)
	case entity.KindStorage:
		return entities(r.data.Storages)
	case entity.KindTransaction:
		return entities(r.data.Transactions)
	}
	return nil
}

func entities[T entity.Entity](items []T) []entity.Entity {
	out := make([]entity.Entity, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (r *DatasetRepository) Units() []*entity.Unit                 { return r.data.Units }
func (r *DatasetRepository) Groups() []*entity.Group               { return r.data.Groups }
func (r *DatasetRepository) Nomenclatures() []*entity.Nomenclature { return r.data.Nomenclatures }
func (r *DatasetRepository) Receipts() []*entity.Receipt           { return r.data.Receipts }
func (r *DatasetRepository) Storages() []*entity.Storage           { return r.data.Storages }
func (r *DatasetRepository) Transactions() []*entity.Transaction   { return r.data.Transactions }

func (r *DatasetRepository) NomenclatureByCode(code string) (*entity.Nomenclature, error) {
	n, ok := r.nomenclatures[code]
	if !ok {
		return nil, fmt.Errorf("nomenclatura %s: %w", code, domain.ErrNotFound)
	}
	return n, nil
}

func (r *DatasetRepository) UnitByCode(code string) (*entity.Unit, error) {
	u, ok := r.units[code]
	if !ok {
		return nil, fmt.Errorf("unidad %s: %w", code, domain.ErrNotFound)
	}
	return u, nil
}

func (r *DatasetRepository) Counts() map[entity.Kind]int {
	return map[entity.Kind]int{
		entity.KindUnit:         len(r.data.Units),
		entity.KindGroup:        len(r.data.Groups),
		entity.KindNomenclature: len(r.data.Nomenclatures),
		entity.KindReceipt:      len(r.data.Receipts),
		entity.KindStorage:      len(r.data.Storages),
		entity.KindTransaction:  len(r.data.Transactions),
	}
}
