package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateTimeLayout formato de fecha de las transacciones en el archivo de origen.
const DateTimeLayout = "2006-01-02 15:04:05"

// Transaction movimiento de inventario. El signo de Quantity codifica la dirección:
// positivo entrada, negativo salida (antes de convertir por la unidad).
type Transaction struct {
	Identity
	Date         time.Time
	Storage      *Storage
	Nomenclature *Nomenclature
	Unit         *Unit
	Quantity     decimal.Decimal
}

func (t *Transaction) Kind() Kind { return KindTransaction }

func (t *Transaction) Field(name string) (any, bool) {
	switch name {
	case "date", "date_tr":
		return t.Date, true
	case "quantity":
		return t.Quantity, true
	case "storage":
		if t.Storage == nil {
			return nil, false
		}
		return t.Storage, true
	case "nomenclature":
		if t.Nomenclature == nil {
			return nil, false
		}
		return t.Nomenclature, true
	case "unit", "range":
		if t.Unit == nil {
			return nil, false
		}
		return t.Unit, true
	}
	return t.identityField(name)
}

// StorageCode código del almacén o "".
func (t *Transaction) StorageCode() string {
	if t.Storage == nil {
		return ""
	}
	return t.Storage.UniqueCode
}

// NomenclatureCode código de la nomenclatura o "".
func (t *Transaction) NomenclatureCode() string {
	if t.Nomenclature == nil {
		return ""
	}
	return t.Nomenclature.UniqueCode
}

// UnitCode código de la unidad o "".
func (t *Transaction) UnitCode() string {
	if t.Unit == nil {
		return ""
	}
	return t.Unit.UniqueCode
}

func (t *Transaction) Record() map[string]any {
	r := map[string]any{
		FieldUniqueCode: t.UniqueCode,
		"date_tr":       t.Date.Format(DateTimeLayout),
		"quantity":      t.Quantity,
		"storage":       nil,
		"nomenclature":  nil,
		"unit":          nil,
	}
	if t.Storage != nil {
		r["storage"] = RefRecord(t.Storage)
	}
	if t.Nomenclature != nil {
		r["nomenclature"] = RefRecord(t.Nomenclature)
	}
	if t.Unit != nil {
		r["unit"] = RefRecord(t.Unit)
	}
	return r
}
