// Package taxonomy содержит правила приведения сырых меток источников к
// единой таксономии: канонизацию атрибутов вариантов и переразметку
// категорий по файлам-источникам. Оба набора правил — явные упорядоченные
// списки; порядок несёт семантику и закреплён тестами.
package taxonomy

import "strings"

// CatchAllAttribute — канонический атрибут для меток, не совпавших ни с
// одним правилом.
const CatchAllAttribute = "Lựa chọn"

// DefaultAttribute / DefaultValue — синтетическая опция продукта без
// структурированных вариантов (голая цена).
const (
	DefaultAttribute = "Loại"
	DefaultValue     = "Mặc Định"
)

// AttributeRule — одно правило канонизации: набор ключевых подстрок и
// целевое каноническое имя. Правила проверяются по порядку, побеждает
// первое совпавшее.
type AttributeRule struct {
	Canonical string
	Keywords  []string
	// DigitFreeValue требует, чтобы значение не содержало цифр — защита
	// от числовых «кодов цвета», которые не являются цветами.
	DigitFreeValue bool
}

// attributeRules — закреплённый порядок правил. Canonical каждого правила
// сам совпадает со своими ключевыми словами, что даёт идемпотентность.
var attributeRules = []AttributeRule{
	{Canonical: "Màu", Keywords: []string{"màu", "colour", "color"}, DigitFreeValue: true},
	{Canonical: "Dung lượng", Keywords: []string{"dung lượng", "ram", "memory", "storage"}},
	{Canonical: "Model", Keywords: []string{"model", "model camera", "lựa chọn mẫu", "mẫu"}},
	{Canonical: "Độ phân giải", Keywords: []string{"độ phân giải", "phân giải", "resolution"}},
	{Canonical: "Công suất", Keywords: []string{"công suất", "power"}},
	{Canonical: "Bảo hành", Keywords: []string{"bảo hành", "warranty"}},
	{Canonical: "Chip", Keywords: []string{"chip", "cpu", "vi xử lý", "processor"}},
	{Canonical: "Hệ điều hành", Keywords: []string{"hệ điều hành", "os", "operating system", "win"}},
	{Canonical: "Màn hình", Keywords: []string{"màn", "display", "screen"}},
	{Canonical: "Bút đi kèm", Keywords: []string{"bút", "pen"}},
}

// CanonicalAttribute отображает произвольную метку атрибута на фиксированное
// каноническое имя. Функция чистая и идемпотентная:
// CanonicalAttribute(CanonicalAttribute(a, v), v) == CanonicalAttribute(a, v).
func CanonicalAttribute(attribute, value string) string {
	attribute = strings.ToLower(attribute)
	value = strings.ToLower(value)

	for _, rule := range attributeRules {
		if rule.DigitFreeValue && containsDigit(value) {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(attribute, kw) {
				return rule.Canonical
			}
		}
	}

	return CatchAllAttribute
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
