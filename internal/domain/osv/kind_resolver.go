package osv

import (
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	"github.com/jhoicas/inventario-osv/internal/domain/filter"
)

// ProbeOrder orden en que se prueban las colecciones cuando el filtro no
// declara modelo. Gana la primera colección con al menos una coincidencia,
// aunque el filtro pudiera coincidir también con otras.
var ProbeOrder = []entity.Kind{
	entity.KindNomenclature,
	entity.KindUnit,
	entity.KindGroup,
	entity.KindReceipt,
}

// Dataset colecciones que necesita la resolución de tipos.
type Dataset interface {
	Get(kind entity.Kind) []entity.FieldReader
	Nomenclatures() []*entity.Nomenclature
	Storages() []*entity.Storage
	Transactions() []*entity.Transaction
}

// Admission resultado de traducir un FilterSet a restricciones del reporte.
type Admission struct {
	// NomenclatureIDs códigos admitidos; nil = sin restricción.
	NomenclatureIDs map[string]struct{}
	// Transactions ya filtradas cuando Prefiltered; nil en caso contrario.
	Transactions []*entity.Transaction
	Prefiltered  bool
	// Kind colección que resolvió el filtro ("" sin filtro).
	Kind entity.Kind
}

// Restricted indica si la admisión limita las nomenclaturas.
func (a Admission) Restricted() bool { return a.NomenclatureIDs != nil }

// TransactionsFrom devuelve las transacciones a agregar: las prefiltradas o all.
func (a Admission) TransactionsFrom(all []*entity.Transaction) []*entity.Transaction {
	if a.Prefiltered {
		return a.Transactions
	}
	return all
}

// ResolveAdmission traduce fs a un conjunto de nomenclaturas admitidas.
func ResolveAdmission(fs *filter.FilterSet, ds Dataset) Admission {
	if fs.Empty() {
		return Admission{}
	}

	if fs.HasTarget() {
		switch fs.Target {
		case entity.KindTransaction:
			return admitTransactions(fs, ds)
		case entity.KindStorage:
			return admitStorages(fs, ds)
		}
		matched := fs.Apply(ds.Get(fs.Target))
		return Admission{NomenclatureIDs: nomenclatureIDs(fs.Target, matched, ds.Nomenclatures()), Kind: fs.Target}
	}

	for _, kind := range ProbeOrder {
		collection := ds.Get(kind)
		if len(collection) == 0 {
			continue
		}
		matched := fs.Apply(collection)
		if len(matched) == 0 {
			continue
		}
		return Admission{NomenclatureIDs: nomenclatureIDs(kind, matched, ds.Nomenclatures()), Kind: kind}
	}
	return admitTransactions(fs, ds)
}

// admitTransactions filtra por campos de la propia transacción.
func admitTransactions(fs *filter.FilterSet, ds Dataset) Admission {
	trs := filter.Select(fs, ds.Transactions())
	ids := make(map[string]struct{}, len(trs))
	for _, tr := range trs {
		if code := tr.NomenclatureCode(); code != "" {
			ids[code] = struct{}{}
		}
	}
	return Admission{NomenclatureIDs: ids, Transactions: trs, Prefiltered: true, Kind: entity.KindTransaction}
}

// admitStorages limita las transacciones a los almacenes que cumplen el filtro.
// No restringe nomenclaturas.
func admitStorages(fs *filter.FilterSet, ds Dataset) Admission {
	codes := codesOf(filter.Select(fs, ds.Storages()))
	trs := make([]*entity.Transaction, 0)
	for _, tr := range ds.Transactions() {
		if _, ok := codes[tr.StorageCode()]; ok {
			trs = append(trs, tr)
		}
	}
	return Admission{Transactions: trs, Prefiltered: true, Kind: entity.KindStorage}
}

func nomenclatureIDs(kind entity.Kind, matched []entity.FieldReader, nomenclatures []*entity.Nomenclature) map[string]struct{} {
	codes := codesOf(matched)
	if kind == entity.KindNomenclature {
		return codes
	}
	ids := make(map[string]struct{})
	for _, n := range nomenclatures {
		var ref string
		switch kind {
		case entity.KindGroup:
			if n.Group != nil {
				ref = n.Group.UniqueCode
			}
		case entity.KindUnit:
			ref = n.UnitCode()
		case entity.KindReceipt:
			if n.Receipt != nil {
				ref = n.Receipt.UniqueCode
			}
		}
		if ref == "" {
			continue
		}
		if _, ok := codes[ref]; ok {
			ids[n.UniqueCode] = struct{}{}
		}
	}
	return ids
}

func codesOf[T entity.FieldReader](items []T) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		v, _ := it.Field(entity.FieldUniqueCode)
		if code, ok := v.(string); ok && code != "" {
			out[code] = struct{}{}
		}
	}
	return out
}
