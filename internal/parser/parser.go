// Package parser разбирает мини-язык вариантов каталога:
// построчные записи вида "attr1: val1 $$ attr2: val2 = price VND"
// либо голую цену без структуры опций.
package parser

import (
	"strconv"
	"strings"

	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/internal/taxonomy"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/DRSN-tech/eshop-etl/pkg/vnstr"
)

const (
	pairDelimiter  = "$$"
	priceDelimiter = "="
)

// ExtractOptions разбирает поле вариантов продукта в список опций с
// канонизированными атрибутами и Pascal-Case значениями.
//
// Поле без '=' трактуется как голая цена: продукт получает ровно одну
// синтетическую опцию {Loại: Mặc Định}. Иначе поле разбивается на строки,
// каждая строка — одна опция. Ошибки разбора отдельных строк возвращаются
// вторым значением, не прерывая разбор остальных; ошибка при голой цене
// означает, что поле неразборчиво целиком (продукт отбрасывается выше).
func ExtractOptions(field string) ([]domain.Option, []error) {
	field = strings.TrimSpace(field)

	if !strings.Contains(field, priceDelimiter) {
		price, err := parsePrice(field)
		if err != nil {
			return nil, []error{err}
		}

		return []domain.Option{{
			Attrs:  []string{taxonomy.DefaultAttribute},
			Values: []string{taxonomy.DefaultValue},
			Price:  price,
		}}, nil
	}

	var (
		options  []domain.Option
		lineErrs []error
	)

	for _, line := range strings.Split(field, "\n") {
		option, err := parseLine(line)
		if err != nil {
			lineErrs = append(lineErrs, e.Wrap(strings.TrimSpace(line), err))
			continue
		}

		options = append(options, option)
	}

	return options, lineErrs
}

// parseLine разбирает одну строку опции: правое разбиение по '=' отделяет
// список пар от цены.
func parseLine(line string) (domain.Option, error) {
	idx := strings.LastIndex(line, priceDelimiter)
	if idx < 0 {
		return domain.Option{}, e.ErrMalformedOption
	}

	price, err := parsePrice(line[idx+1:])
	if err != nil {
		return domain.Option{}, err
	}

	pairs := strings.Split(strings.TrimSpace(line[:idx]), pairDelimiter)
	if len(pairs) == 0 {
		return domain.Option{}, e.ErrMalformedOption
	}

	option := domain.Option{
		Attrs:  make([]string, 0, len(pairs)),
		Values: make([]string, 0, len(pairs)),
		Price:  price,
	}

	for _, pair := range pairs {
		if strings.Count(pair, ":") != 1 {
			return domain.Option{}, e.ErrMalformedOption
		}

		rawAttr, rawValue, _ := strings.Cut(pair, ":")

		value := vnstr.PascalCase(strings.TrimSpace(rawValue))
		attr := taxonomy.CanonicalAttribute(strings.TrimSpace(rawAttr), value)

		option.Attrs = append(option.Attrs, attr)
		option.Values = append(option.Values, value)
	}

	return option, nil
}

// parsePrice берёт первый пробельно-отделённый токен до валютного суффикса
// и разбирает его как целое.
func parsePrice(s string) (int64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, e.ErrMalformedPrice
	}

	price, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, e.ErrMalformedPrice
	}

	return price, nil
}
