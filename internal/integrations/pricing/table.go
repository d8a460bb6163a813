package pricing

import (
	"fmt"
	"strings"
)

// Table статический прайс-лист процедур. Только чтение, безопасен для конкурентного использования.
type Table struct {
	bySlug map[string]Procedure
}

// NewTable создает прайс-лист. Пустой список заменяется встроенным.
func NewTable(rows []Procedure) *Table {
	if len(rows) == 0 {
		rows = DefaultProcedures()
	}

	t := &Table{bySlug: make(map[string]Procedure, len(rows))}
	for _, row := range rows {
		t.bySlug[normalize(row.Slug)] = row
	}
	return t
}

// Lookup возвращает строку прайс-листа по slug процедуры
func (t *Table) Lookup(slug string) (Procedure, error) {
	p, ok := t.bySlug[normalize(slug)]
	if !ok {
		return Procedure{}, fmt.Errorf("%w: %q", ErrUnknownProcedure, slug)
	}
	return p, nil
}

// Len количество процедур в прайс-листе
func (t *Table) Len() int {
	return len(t.bySlug)
}

func normalize(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func price(v float64) *float64 {
	return &v
}

// DefaultProcedures встроенный прайс-лист
func DefaultProcedures() []Procedure {
	return []Procedure{
		{Slug: "botox", Name: "Botox", MarketPrice: price(550), OfferedPrice: price(450)},
		{Slug: "lip-filler", Name: "Lip Filler", MarketPrice: price(800), OfferedPrice: price(650)},
		{Slug: "cheek-filler", Name: "Cheek Filler", MarketPrice: price(1100), OfferedPrice: price(900)},
		{Slug: "hydrafacial", Name: "HydraFacial", MarketPrice: price(250), OfferedPrice: price(199)},
		{Slug: "chemical-peel", Name: "Chemical Peel", MarketPrice: price(300), OfferedPrice: price(240)},
		{Slug: "microneedling", Name: "Microneedling", MarketPrice: price(450), OfferedPrice: price(375)},
		{Slug: "laser-hair-removal", Name: "Laser Hair Removal", MarketPrice: price(400), OfferedPrice: price(320)},
		{Slug: "coolsculpting", Name: "CoolSculpting", MarketPrice: price(1500), OfferedPrice: price(1250)},
	}
}
