package entity

// Nombres de campo comunes a todas las entidades.
const (
	FieldUniqueCode = "unique_code"
	FieldName       = "name"
)

// FieldReader expone atributos por nombre. Es la única capacidad que necesita el
// motor de filtros: nunca depende de los tipos concretos.
// Un atributo ausente o una referencia vacía devuelve (nil, false).
type FieldReader interface {
	Field(name string) (any, bool)
}

// Entity es un registro de dominio identificable y serializable como registro plano.
type Entity interface {
	FieldReader
	Code() string
	DisplayName() string
	Kind() Kind
	Record() map[string]any
}

// Identity campos administrativos de identidad (únicos mutables tras la carga).
type Identity struct {
	UniqueCode string
	Name       string
}

// Code devuelve el código único.
func (i Identity) Code() string { return i.UniqueCode }

// DisplayName devuelve el nombre legible.
func (i Identity) DisplayName() string { return i.Name }

func (i Identity) identityField(name string) (any, bool) {
	switch name {
	case FieldUniqueCode, "id":
		return i.UniqueCode, true
	case FieldName:
		return i.Name, true
	}
	return nil, false
}

// RefRecord resume una referencia a otra entidad (evita ciclos al serializar).
func RefRecord(e Entity) map[string]any {
	if e == nil {
		return nil
	}
	return map[string]any{
		FieldUniqueCode: e.Code(),
		FieldName:       e.DisplayName(),
	}
}

// Readers convierte una colección tipada en []FieldReader.
func Readers[T FieldReader](items []T) []FieldReader {
	out := make([]FieldReader, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
