// Package dataset carga el archivo de arranque (formato settings.json: receta por
// defecto con unidades, grupos, nomenclaturas y composición, más almacenes y
// transacciones) y lo convierte en un memory.Dataset con referencias enlazadas.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/memory"
)

// unknownReceiptName nombre de la receta cuando el archivo no lo trae.
const unknownReceiptName = "НЕ ИЗВЕСТНО"

// Document estructura del archivo de arranque.
type Document struct {
	FirstStart     *bool            `json:"first_start,omitempty"`
	BlockPeriod    string           `json:"block_period,omitempty"`
	DefaultReceipt *receiptDoc      `json:"default_receipt,omitempty"`
	Storages       []storageDoc     `json:"storage,omitempty"`
	Transactions   []transactionDoc `json:"transaction,omitempty"`
}

type receiptDoc struct {
	ID            string            `json:"id,omitempty"`
	Name          string            `json:"name"`
	CookingTime   string            `json:"cooking_time"`
	Portions      int               `json:"portions"`
	Steps         []string          `json:"steps"`
	Ranges        []rangeDoc        `json:"ranges"`
	Categories    []categoryDoc     `json:"categories"`
	Nomenclatures []nomenclatureDoc `json:"nomenclatures"`
	Composition   []compositionDoc  `json:"composition"`
}

type rangeDoc struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Value  decimal.Decimal `json:"value"`
	BaseID string          `json:"base_id,omitempty"`
}

type categoryDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type nomenclatureDoc struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FullName   string `json:"full_name"`
	CategoryID string `json:"category_id"`
	RangeID    string `json:"range_id"`
}

type compositionDoc struct {
	NomenclatureID string          `json:"nomenclature_id"`
	RangeID        string          `json:"range_id"`
	Value          decimal.Decimal `json:"value"`
}

type storageDoc struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type transactionDoc struct {
	ID             string          `json:"id"`
	DateTr         string          `json:"date_tr"`
	NomenclatureID string          `json:"nomenclature_id"`
	StorageID      string          `json:"storage_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	RangeID        string          `json:"range_id"`
}

// LoadFile lee y convierte el archivo en path.
func LoadFile(path string) (memory.Dataset, *Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return memory.Dataset{}, nil, fmt.Errorf("dataset: abrir %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load valida r contra el esquema, lo decodifica y construye el dataset.
func Load(r io.Reader) (memory.Dataset, *Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return memory.Dataset{}, nil, fmt.Errorf("dataset: leer: %w", err)
	}
	if err := validate(data); err != nil {
		return memory.Dataset{}, nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return memory.Dataset{}, nil, fmt.Errorf("dataset: JSON inválido: %w", err)
	}
	ds, err := doc.Build()
	if err != nil {
		return memory.Dataset{}, nil, err
	}
	return ds, &doc, nil
}

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "inventario-osv/dataset.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("dataset: esquema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("dataset: esquema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// validate rechaza documentos con forma incorrecta antes de enlazar referencias.
func validate(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("dataset: JSON inválido: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("dataset: %w", domain.NewValidationError("settings", "", err.Error()))
	}
	return nil
}

// Build enlaza referencias por id. Las referencias colgantes de nomenclaturas y
// recetas quedan vacías; las de transacciones son un error.
func (doc *Document) Build() (memory.Dataset, error) {
	var ds memory.Dataset
	units := make(map[string]*entity.Unit)
	groups := make(map[string]*entity.Group)
	nomenclatures := make(map[string]*entity.Nomenclature)
	storages := make(map[string]*entity.Storage)

	if rd := doc.DefaultReceipt; rd != nil {
		for _, d := range rd.Ranges {
			u := &entity.Unit{Identity: identity(d.ID, d.Name), Scale: d.Value}
			units[u.UniqueCode] = u
			ds.Units = append(ds.Units, u)
		}
		for _, d := range rd.Ranges {
			if d.BaseID == "" || d.ID == "" {
				continue
			}
			units[d.ID].BaseUnit = units[d.BaseID]
		}

		for _, d := range rd.Categories {
			g := &entity.Group{Identity: identity(d.ID, d.Name)}
			groups[g.UniqueCode] = g
			ds.Groups = append(ds.Groups, g)
		}

		for _, d := range rd.Nomenclatures {
			n := &entity.Nomenclature{
				Identity: identity(d.ID, d.Name),
				FullName: d.FullName,
				Group:    groups[d.CategoryID],
				Unit:     units[d.RangeID],
			}
			nomenclatures[n.UniqueCode] = n
			ds.Nomenclatures = append(ds.Nomenclatures, n)
		}

		name := strings.TrimSpace(rd.Name)
		if name == "" {
			name = unknownReceiptName
		}
		receipt := &entity.Receipt{
			Identity:    identity(rd.ID, name),
			CookingTime: rd.CookingTime,
			Portions:    rd.Portions,
		}
		for _, s := range rd.Steps {
			if strings.TrimSpace(s) != "" {
				receipt.Steps = append(receipt.Steps, s)
			}
		}
		for _, c := range rd.Composition {
			item := &entity.ReceiptItem{
				Nomenclature: nomenclatures[c.NomenclatureID],
				Unit:         units[c.RangeID],
				Value:        c.Value,
			}
			if item.Nomenclature != nil && item.Nomenclature.Receipt == nil {
				item.Nomenclature.Receipt = receipt
			}
			receipt.Composition = append(receipt.Composition, item)
		}
		ds.Receipts = append(ds.Receipts, receipt)
	}

	for _, d := range doc.Storages {
		s := &entity.Storage{Identity: identity(d.ID, d.Name), Address: d.Address}
		storages[s.UniqueCode] = s
		ds.Storages = append(ds.Storages, s)
	}

	for _, d := range doc.Transactions {
		tr, err := buildTransaction(d, storages, nomenclatures, units)
		if err != nil {
			return memory.Dataset{}, err
		}
		ds.Transactions = append(ds.Transactions, tr)
	}
	return ds, nil
}

func buildTransaction(d transactionDoc, storages map[string]*entity.Storage, nomenclatures map[string]*entity.Nomenclature, units map[string]*entity.Unit) (*entity.Transaction, error) {
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	date, err := time.ParseInLocation(entity.DateTimeLayout, strings.TrimSpace(d.DateTr), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("dataset: transacción %s: %w", id,
			domain.NewValidationError("date_tr", d.DateTr, "formato esperado YYYY-MM-DD HH:MM:SS"))
	}
	storage, ok := storages[d.StorageID]
	if !ok {
		return nil, fmt.Errorf("dataset: transacción %s: almacén %s: %w", id, d.StorageID, domain.ErrNotFound)
	}
	nomenclature, ok := nomenclatures[d.NomenclatureID]
	if !ok {
		return nil, fmt.Errorf("dataset: transacción %s: nomenclatura %s: %w", id, d.NomenclatureID, domain.ErrNotFound)
	}
	unit, ok := units[d.RangeID]
	if !ok {
		return nil, fmt.Errorf("dataset: transacción %s: unidad %s: %w", id, d.RangeID, domain.ErrNotFound)
	}
	return &entity.Transaction{
		Identity:     entity.Identity{UniqueCode: id},
		Date:         date,
		Storage:      storage,
		Nomenclature: nomenclature,
		Unit:         unit,
		Quantity:     d.Quantity,
	}, nil
}

// identity usa id del archivo o genera uno nuevo si falta.
func identity(id, name string) entity.Identity {
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	return entity.Identity{UniqueCode: id, Name: name}
}
