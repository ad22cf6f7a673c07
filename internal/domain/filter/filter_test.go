package filter_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	"github.com/jhoicas/inventario-osv/internal/domain/filter"
)

// ──────────────────────────────────────────────────────────────────────────────
// Datos de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	kg, gr        *entity.Unit
	flourGroup    *entity.Group
	sweetGroup    *entity.Group
	flour, sugar  *entity.Nomenclature
	eggs          *entity.Nomenclature
	waffles       *entity.Receipt
	nomenclatures []*entity.Nomenclature
}

func newFixture() *fixture {
	f := &fixture{}
	f.gr = &entity.Unit{Identity: entity.Identity{UniqueCode: "u-gr", Name: "гр"}, Scale: decimal.NewFromInt(1)}
	f.kg = &entity.Unit{Identity: entity.Identity{UniqueCode: "u-kg", Name: "кг"}, Scale: decimal.NewFromInt(1000), BaseUnit: f.gr}
	f.flourGroup = &entity.Group{Identity: entity.Identity{UniqueCode: "g-1", Name: "Bakery"}}
	f.sweetGroup = &entity.Group{Identity: entity.Identity{UniqueCode: "g-2", Name: "Sweets"}}
	f.flour = &entity.Nomenclature{Identity: entity.Identity{UniqueCode: "n-1", Name: "Wheat Flour"}, Group: f.flourGroup, Unit: f.kg}
	f.sugar = &entity.Nomenclature{Identity: entity.Identity{UniqueCode: "n-2", Name: "Sugar"}, Group: f.sweetGroup, Unit: f.gr}
	f.eggs = &entity.Nomenclature{Identity: entity.Identity{UniqueCode: "n-3", Name: "Eggs"}}
	f.waffles = &entity.Receipt{
		Identity: entity.Identity{UniqueCode: "r-1", Name: "Waffles"},
		Steps:    []string{"Mix", "Bake"},
		Composition: []*entity.ReceiptItem{
			{Nomenclature: f.flour, Unit: f.gr, Value: decimal.NewFromInt(100)},
			{Nomenclature: f.sugar, Unit: f.gr, Value: decimal.NewFromInt(80)},
		},
	}
	f.nomenclatures = []*entity.Nomenclature{f.flour, f.sugar, f.eggs}
	return f
}

func names(items []*entity.Nomenclature) []string {
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.Name)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_ScalarAndNested(t *testing.T) {
	f := newFixture()

	assert.Equal(t, "Wheat Flour", filter.Resolve(f.flour, "name"))
	assert.Equal(t, "Bakery", filter.Resolve(f.flour, "group.name"))
	assert.Equal(t, "гр", filter.Resolve(f.flour, "unit.base.name"))
	assert.Nil(t, filter.Resolve(f.eggs, "group.name"), "referencia vacía resuelve a nil")
	assert.Nil(t, filter.Resolve(f.flour, "no_such_field"))
	assert.Nil(t, filter.Resolve(f.flour, "name.deeper"), "un escalar no tiene atributos")
}

func TestResolve_ThroughCollections(t *testing.T) {
	f := newFixture()

	got := filter.Resolve(f.waffles, "composition.nomenclature.name")
	assert.Equal(t, []any{"Wheat Flour", "Sugar"}, got)

	assert.Equal(t, []string{"Mix", "Bake"}, filter.Resolve(f.waffles, "steps"), "una hoja lista se devuelve tal cual")
	assert.Nil(t, filter.Resolve(f.waffles, "composition.nomenclature.group.missing"))
}

func TestResolve_Maps(t *testing.T) {
	rec := map[string]any{
		"storage": map[string]any{"name": "Main"},
		"items":   []any{map[string]any{"code": "a"}, map[string]any{"code": nil}, map[string]any{"code": "c"}},
	}
	assert.Equal(t, "Main", filter.Resolve(rec, "storage.name"))
	assert.Equal(t, []any{"a", "c"}, filter.Resolve(rec, "items.code"))
	assert.Nil(t, filter.Resolve(rec, "storage.address"))
	assert.Equal(t, rec, filter.Resolve(rec, ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Matches
// ──────────────────────────────────────────────────────────────────────────────

func TestMatches_Normalization(t *testing.T) {
	tests := []struct {
		name      string
		candidate any
		f         filter.FieldFilter
		want      bool
	}{
		{"equals ignora mayúsculas", "Sugar", filter.FieldFilter{Kind: filter.Equals, Expected: "sugar"}, true},
		{"equals recorta espacios", "  Sugar ", filter.FieldFilter{Kind: filter.Equals, Expected: "SUGAR"}, true},
		{"equals no es subcadena", "Brown Sugar", filter.FieldFilter{Kind: filter.Equals, Expected: "sugar"}, false},
		{"like subcadena", "Wheat Flour", filter.FieldFilter{Kind: filter.Like, Expected: "flour"}, true},
		{"like cirílico", "Мука пшеничная", filter.FieldFilter{Kind: filter.Like, Expected: "МУКА"}, true},
		{"decimal", decimal.RequireFromString("1000"), filter.FieldFilter{Kind: filter.Equals, Expected: "1000"}, true},
		{"número json", decimal.NewFromInt(10), filter.FieldFilter{Kind: filter.Equals, Expected: float64(10)}, true},
		{"fecha", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), filter.FieldFilter{Kind: filter.Like, Expected: "2024-01-02"}, true},
		{"nil nunca cumple", nil, filter.FieldFilter{Kind: filter.Equals, Expected: ""}, false},
		{"tipo desconocido usa igualdad", "Sugar", filter.FieldFilter{Kind: "REGEX", Expected: "sugar"}, true},
		{"tipo desconocido no es subcadena", "Brown Sugar", filter.FieldFilter{Kind: "REGEX", Expected: "sugar"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, filter.Matches(tc.candidate, tc.f))
		})
	}
}

// Un filtro sobre una lista cumple si algún elemento cumple.
func TestMatches_ExistentialOverLists(t *testing.T) {
	f := newFixture()
	like := filter.FieldFilter{Path: "composition.nomenclature.name", Kind: filter.Like, Expected: "sug"}
	eq := filter.FieldFilter{Path: "composition.nomenclature.name", Kind: filter.Equals, Expected: "eggs"}

	assert.True(t, filter.Matches(filter.Resolve(f.waffles, like.Path), like))
	assert.False(t, filter.Matches(filter.Resolve(f.waffles, eq.Path), eq))

	allNil := filter.FieldFilter{Path: "composition.nomenclature.group.address", Kind: filter.Like, Expected: ""}
	assert.False(t, filter.Matches(filter.Resolve(f.waffles, allNil.Path), allNil), "una lista sin valores nunca cumple")
	assert.False(t, filter.Matches([]any{}, like))
}

// ──────────────────────────────────────────────────────────────────────────────
// FilterSet
// ──────────────────────────────────────────────────────────────────────────────

func TestFilterSet_LikeOnName(t *testing.T) {
	items := []*entity.Nomenclature{
		{Identity: entity.Identity{Name: "Wheat Flour"}},
		{Identity: entity.Identity{Name: "Sugar"}},
	}
	fs, err := filter.Parse(map[string]any{
		"filters": []any{map[string]any{"field_name": "name", "value": "Flour", "type": "LIKE"}},
	})
	require.NoError(t, err)

	got := filter.Select(fs, items)
	require.Len(t, got, 1)
	assert.Equal(t, "Wheat Flour", got[0].Name)
}

func TestFilterSet_AndSemantics(t *testing.T) {
	f := newFixture()
	byGroup := filter.FieldFilter{Path: "group.name", Kind: filter.Like, Expected: "e"}
	byUnit := filter.FieldFilter{Path: "unit.name", Kind: filter.Equals, Expected: "кг"}

	both := filter.Select(filter.New("", byGroup, byUnit), f.nomenclatures)
	onlyGroup := filter.Select(filter.New("", byGroup), f.nomenclatures)
	onlyUnit := filter.Select(filter.New("", byUnit), f.nomenclatures)

	assert.Equal(t, []string{"Wheat Flour"}, names(both))
	assert.Equal(t, []string{"Wheat Flour"}, names(onlyUnit))
	assert.ElementsMatch(t, []string{"Wheat Flour", "Sugar"}, names(onlyGroup))
	assert.GreaterOrEqual(t, len(onlyGroup), len(both), "quitar un filtro nunca reduce el resultado")

	for _, n := range f.nomenclatures {
		in := filter.New("", byGroup, byUnit).Match(n)
		each := filter.Matches(filter.Resolve(n, byGroup.Path), byGroup) && filter.Matches(filter.Resolve(n, byUnit.Path), byUnit)
		assert.Equal(t, each, in, n.Name)
	}
}

func TestFilterSet_EmptyMatchesAllAndKeepsOrder(t *testing.T) {
	f := newFixture()
	got := filter.Select(filter.New(""), f.nomenclatures)
	assert.Equal(t, []string{"Wheat Flour", "Sugar", "Eggs"}, names(got))

	var nilSet *filter.FilterSet
	assert.Len(t, filter.Select(nilSet, f.nomenclatures), 3)
	assert.Empty(t, filter.Select(filter.New(""), []*entity.Nomenclature{}))
	assert.True(t, nilSet.Empty())
}

func TestFilterSet_ApplyOnReaders(t *testing.T) {
	f := newFixture()
	fs := filter.New(entity.KindNomenclature, filter.FieldFilter{Path: "unique_code", Kind: filter.Equals, Expected: "n-3"})
	got := fs.Apply(entity.Readers(f.nomenclatures))
	require.Len(t, got, 1)
	assert.Same(t, f.eggs, got[0])
	assert.True(t, fs.HasTarget())
}

// ──────────────────────────────────────────────────────────────────────────────
// Parse
// ──────────────────────────────────────────────────────────────────────────────

func TestParse_Idempotent(t *testing.T) {
	f := newFixture()
	raw := map[string]any{
		"model": "nomenclature_model",
		"filters": []any{
			map[string]any{"field_name": "group.name", "value": "s", "type": "like"},
			map[string]any{"field_name": "unit.unique_code", "value": "u-gr", "type": "EQUALS"},
		},
		"sorting": []any{"name"},
	}
	a, err := filter.Parse(raw)
	require.NoError(t, err)
	b, err := filter.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, entity.KindNomenclature, a.Target)
	assert.Equal(t, names(filter.Select(a, f.nomenclatures)), names(filter.Select(b, f.nomenclatures)))
	assert.Equal(t, []string{"Sugar"}, names(filter.Select(a, f.nomenclatures)))
}

func TestParse_NestedShape(t *testing.T) {
	fs, err := filter.Parse(map[string]any{
		"filters": map[string]any{
			"model":   "range",
			"filters": []any{map[string]any{"field_name": "name", "value": "kg", "type": "EQUALS"}},
		},
		"sorting": []any{"name", "unique_code"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.KindUnit, fs.Target)
	assert.Len(t, fs.Filters, 1)
	assert.Equal(t, []string{"name", "unique_code"}, fs.Sorting)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		raw   map[string]any
		field string
	}{
		{"tipo ausente", map[string]any{"filters": []any{map[string]any{"field_name": "name", "value": "x"}}}, "filters[0].type"},
		{"tipo desconocido", map[string]any{"filters": []any{map[string]any{"field_name": "name", "value": "x", "type": "REGEX"}}}, "filters[0].type"},
		{"campo vacío", map[string]any{"filters": []any{map[string]any{"field_name": " ", "type": "LIKE"}}}, "filters[0].field_name"},
		{"filters no es lista", map[string]any{"filters": "name=x"}, "filters"},
		{"modelo desconocido", map[string]any{"model": "warehouse"}, "model"},
		{"sorting inválido", map[string]any{"sorting": []any{1}}, "sorting[0]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := filter.Parse(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestParse_EmptyRecord(t *testing.T) {
	fs, err := filter.Parse(nil)
	require.NoError(t, err)
	assert.True(t, fs.Empty())
	assert.False(t, fs.HasTarget())
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden
// ──────────────────────────────────────────────────────────────────────────────

func TestSortBy(t *testing.T) {
	f := newFixture()
	items := []*entity.Nomenclature{f.flour, f.sugar, f.eggs}

	filter.SortBy(items, []string{"name"})
	assert.Equal(t, []string{"Eggs", "Sugar", "Wheat Flour"}, names(items))

	// nil ordena primero; empate en grupo se resuelve por la segunda clave.
	filter.SortBy(items, []string{"group.name", "unique_code"})
	assert.Equal(t, []string{"Eggs", "Wheat Flour", "Sugar"}, names(items))
}

func TestSortBy_Numeric(t *testing.T) {
	units := []*entity.Unit{
		{Identity: entity.Identity{Name: "t"}, Scale: decimal.NewFromInt(1000000)},
		{Identity: entity.Identity{Name: "g"}, Scale: decimal.NewFromInt(1)},
		{Identity: entity.Identity{Name: "kg"}, Scale: decimal.NewFromInt(1000)},
	}
	filter.SortBy(units, []string{"value"})
	assert.Equal(t, "g", units[0].Name)
	assert.Equal(t, "kg", units[1].Name)
	assert.Equal(t, "t", units[2].Name)
}
