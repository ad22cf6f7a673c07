package entity

// Group grupo (categoría) de nomenclatura.
type Group struct {
	Identity
}

func (g *Group) Kind() Kind { return KindGroup }

func (g *Group) Field(name string) (any, bool) { return g.identityField(name) }

func (g *Group) Record() map[string]any {
	return map[string]any{FieldUniqueCode: g.UniqueCode, FieldName: g.Name}
}
