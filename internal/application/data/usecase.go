package data

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-osv/internal/application/dto"
	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	domfilter "github.com/jhoicas/inventario-osv/internal/domain/filter"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
	"github.com/jhoicas/inventario-osv/pkg/logger"
)

// UseCase consultas sobre el dataset cargado: listados y filtrado genérico.
type UseCase struct {
	dataset repository.DatasetRepository
	log     *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(dataset repository.DatasetRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{dataset: dataset, log: log}
}

// ParseKind valida el tipo de entidad recibido en la ruta.
func ParseKind(raw string) (entity.Kind, error) {
	kind, ok := entity.ParseKind(raw)
	if !ok {
		return "", domain.NewValidationError("kind", raw, "tipo de entidad desconocido")
	}
	return kind, nil
}

// Models tipos de entidad disponibles.
func (uc *UseCase) Models() []string {
	out := make([]string, 0, len(entity.Kinds))
	for _, k := range entity.Kinds {
		out = append(out, k.String())
	}
	return out
}

// List devuelve una página de la colección kind y el total.
func (uc *UseCase) List(_ context.Context, rawKind string, page dto.PageRequest) ([]entity.Entity, int, error) {
	kind, err := ParseKind(rawKind)
	if err != nil {
		return nil, 0, err
	}
	page.DefaultPage()
	all := uc.dataset.Entities(kind)
	return paginate(all, page), len(all), nil
}

// ApplyFilter aplica el filtro crudo a la colección kind y devuelve las entidades
// que cumplen, en el orden del dataset o en el pedido por "sorting".
// Si el filtro declara un modelo distinto de kind es un error de validación.
func (uc *UseCase) ApplyFilter(_ context.Context, rawKind string, raw map[string]any) ([]entity.Entity, error) {
	kind, err := ParseKind(rawKind)
	if err != nil {
		return nil, err
	}
	fs, err := domfilter.Parse(raw)
	if err != nil {
		return nil, err
	}
	if fs.HasTarget() && fs.Target != kind {
		return nil, domain.NewValidationError("model", fs.Target.String(), fmt.Sprintf("no corresponde a la colección %s", kind))
	}

	out := domfilter.Select(fs, uc.dataset.Entities(kind))
	domfilter.SortBy(out, fs.Sorting)

	uc.log.Debug().
		Str("kind", kind.String()).
		Int("filters", len(fs.Filters)).
		Int("matched", len(out)).
		Msg("filtro aplicado")
	return out, nil
}

func paginate[T any](items []T, page dto.PageRequest) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}
