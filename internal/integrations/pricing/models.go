package pricing

// Procedure строка прайс-листа
type Procedure struct {
	Slug         string
	Name         string
	MarketPrice  *float64 // Средняя рыночная цена
	OfferedPrice *float64 // Цена, которую предлагает консьерж
}
