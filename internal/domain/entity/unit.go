package entity

import "github.com/shopspring/decimal"

// Unit unidad de medida con factor de escala (ej. kg → base gramo, factor 1000).
type Unit struct {
	Identity
	Scale    decimal.Decimal // factor para normalizar cantidades; cero = sin escala
	BaseUnit *Unit           // unidad base opcional
}

func (u *Unit) Kind() Kind { return KindUnit }

func (u *Unit) Field(name string) (any, bool) {
	switch name {
	case "value", "scale":
		return u.Scale, true
	case "base":
		if u.BaseUnit == nil {
			return nil, false
		}
		return u.BaseUnit, true
	}
	return u.identityField(name)
}

func (u *Unit) Record() map[string]any {
	r := map[string]any{
		FieldUniqueCode: u.UniqueCode,
		FieldName:       u.Name,
		"value":         u.Scale,
		"base":          nil,
	}
	if u.BaseUnit != nil {
		r["base"] = RefRecord(u.BaseUnit)
	}
	return r
}
