package entity

import "github.com/shopspring/decimal"

// Receipt receta: pasos de preparación y composición de ingredientes.
type Receipt struct {
	Identity
	CookingTime string
	Portions    int
	Steps       []string
	Composition []*ReceiptItem
}

// ReceiptItem ingrediente de una receta.
type ReceiptItem struct {
	Nomenclature *Nomenclature
	Unit         *Unit
	Value        decimal.Decimal
}

func (r *Receipt) Kind() Kind { return KindReceipt }

func (r *Receipt) Field(name string) (any, bool) {
	switch name {
	case "cooking_time":
		return r.CookingTime, true
	case "portions":
		return r.Portions, true
	case "steps":
		return r.Steps, true
	case "composition":
		return Readers(r.Composition), true
	}
	return r.identityField(name)
}

func (r *Receipt) Record() map[string]any {
	items := make([]any, 0, len(r.Composition))
	for _, it := range r.Composition {
		items = append(items, it.Record())
	}
	steps := make([]any, 0, len(r.Steps))
	for _, s := range r.Steps {
		steps = append(steps, s)
	}
	return map[string]any{
		FieldUniqueCode: r.UniqueCode,
		FieldName:       r.Name,
		"cooking_time":  r.CookingTime,
		"portions":      r.Portions,
		"steps":         steps,
		"composition":   items,
	}
}

func (i *ReceiptItem) Field(name string) (any, bool) {
	switch name {
	case "nomenclature":
		if i.Nomenclature == nil {
			return nil, false
		}
		return i.Nomenclature, true
	case "unit", "range":
		if i.Unit == nil {
			return nil, false
		}
		return i.Unit, true
	case "value":
		return i.Value, true
	}
	return nil, false
}

func (i *ReceiptItem) Record() map[string]any {
	r := map[string]any{"nomenclature": nil, "unit": nil, "value": i.Value}
	if i.Nomenclature != nil {
		r["nomenclature"] = RefRecord(i.Nomenclature)
	}
	if i.Unit != nil {
		r["unit"] = RefRecord(i.Unit)
	}
	return r
}
