package domain

import (
	"sort"
	"strings"
)

// Option — разобранная ценовая опция из мини-языка вариантов:
// параллельные списки канонических атрибутов и Pascal-Case значений плюс цена.
type Option struct {
	Attrs  []string
	Values []string
	Price  int64
}

// SortedPairs возвращает каноническую строку пар (атрибут, значение),
// отсортированных по атрибуту, затем по значению. Используется как часть
// ключа при обратном разрешении свободного текста отзывов в вариант.
func (o Option) SortedPairs() string {
	pairs := make([]string, 0, len(o.Attrs))
	for i := range o.Attrs {
		pairs = append(pairs, o.Attrs[i]+":"+o.Values[i])
	}
	sort.Strings(pairs)

	return strings.Join(pairs, "$$")
}

// OptionKey — ключ таблицы обратного разрешения: исходный идентификатор
// продукта плюс каноническая строка пар опции.
type OptionKey struct {
	SourceProductID int64
	Pairs           string
}
