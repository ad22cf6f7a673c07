package entity

// Storage almacén donde ocurren los movimientos.
type Storage struct {
	Identity
	Address string
}

func (s *Storage) Kind() Kind { return KindStorage }

func (s *Storage) Field(name string) (any, bool) {
	if name == "address" {
		return s.Address, true
	}
	return s.identityField(name)
}

func (s *Storage) Record() map[string]any {
	return map[string]any{FieldUniqueCode: s.UniqueCode, FieldName: s.Name, "address": s.Address}
}
