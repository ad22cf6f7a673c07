package entity

import "strings"

// Kind identifica una colección del dataset cargado.
type Kind string

// Tipos de entidad conocidos.
const (
	KindNomenclature Kind = "nomenclature"
	KindUnit         Kind = "unit" // unidad de medida (range en el archivo de origen)
	KindGroup        Kind = "group"
	KindReceipt      Kind = "receipt"
	KindStorage      Kind = "storage"
	KindTransaction  Kind = "transaction"
)

// Kinds lista todos los tipos en el orden en que se cargan.
var Kinds = []Kind{KindUnit, KindGroup, KindNomenclature, KindReceipt, KindStorage, KindTransaction}

// kindAliases acepta los nombres de modelo del archivo de origen (range_model, category...).
var kindAliases = map[string]Kind{
	"nomenclature":       KindNomenclature,
	"nomenclature_model": KindNomenclature,
	"unit":               KindUnit,
	"range":              KindUnit,
	"range_model":        KindUnit,
	"group":              KindGroup,
	"group_model":        KindGroup,
	"category":           KindGroup,
	"receipt":            KindReceipt,
	"receipt_model":      KindReceipt,
	"storage":            KindStorage,
	"storage_model":      KindStorage,
	"transaction":        KindTransaction,
	"transaction_model":  KindTransaction,
}

// ParseKind normaliza un token de modelo. ok=false si no corresponde a ningún tipo.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

func (k Kind) String() string { return string(k) }
