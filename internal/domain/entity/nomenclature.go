package entity

// Nomenclature tipo de artículo de inventario (ej. "harina de trigo").
// Referencia su grupo, su unidad de medida y, si forma parte de una receta, la receta.
type Nomenclature struct {
	Identity
	FullName string
	Group    *Group
	Unit     *Unit
	Receipt  *Receipt
}

func (n *Nomenclature) Kind() Kind { return KindNomenclature }

func (n *Nomenclature) Field(name string) (any, bool) {
	switch name {
	case "full_name":
		return n.FullName, true
	case "group", "category":
		if n.Group == nil {
			return nil, false
		}
		return n.Group, true
	case "unit", "range":
		if n.Unit == nil {
			return nil, false
		}
		return n.Unit, true
	case "receipt":
		if n.Receipt == nil {
			return nil, false
		}
		return n.Receipt, true
	}
	return n.identityField(name)
}

// UnitCode código de la unidad o "" si no tiene.
func (n *Nomenclature) UnitCode() string {
	if n.Unit == nil {
		return ""
	}
	return n.Unit.UniqueCode
}

func (n *Nomenclature) Record() map[string]any {
	r := map[string]any{
		FieldUniqueCode: n.UniqueCode,
		FieldName:       n.Name,
		"full_name":     n.FullName,
		"group":         nil,
		"unit":          nil,
		"receipt":       nil,
	}
	if n.Group != nil {
		r["group"] = RefRecord(n.Group)
	}
	if n.Unit != nil {
		r["unit"] = RefRecord(n.Unit)
	}
	if n.Receipt != nil {
		r["receipt"] = RefRecord(n.Receipt)
	}
	return r
}
