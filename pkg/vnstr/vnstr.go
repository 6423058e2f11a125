// Package vnstr предоставляет утилиты нормализации вьетнамских строк:
// сворачивание диакритики и приведение к Pascal Case. Используется перед
// хэшированием, чтобы орфографический разнобой исходных файлов не порождал
// разные идентификаторы.
package vnstr

import "strings"

// vietnameseChars — таблица соответствия вьетнамских символов латинице.
var vietnameseChars = map[rune]rune{
	'à': 'a', 'á': 'a', 'ả': 'a', 'ã': 'a', 'ạ': 'a',
	'ă': 'a', 'ằ': 'a', 'ắ': 'a', 'ẳ': 'a', 'ẵ': 'a', 'ặ': 'a',
	'â': 'a', 'ầ': 'a', 'ấ': 'a', 'ẩ': 'a', 'ẫ': 'a', 'ậ': 'a',
	'đ': 'd',
	'è': 'e', 'é': 'e', 'ẻ': 'e', 'ẽ': 'e', 'ẹ': 'e',
	'ê': 'e', 'ề': 'e', 'ế': 'e', 'ể': 'e', 'ễ': 'e', 'ệ': 'e',
	'ì': 'i', 'í': 'i', 'ỉ': 'i', 'ĩ': 'i', 'ị': 'i',
	'ò': 'o', 'ó': 'o', 'ỏ': 'o', 'õ': 'o', 'ọ': 'o',
	'ô': 'o', 'ồ': 'o', 'ố': 'o', 'ổ': 'o', 'ỗ': 'o', 'ộ': 'o',
	'ơ': 'o', 'ờ': 'o', 'ớ': 'o', 'ở': 'o', 'ỡ': 'o', 'ợ': 'o',
	'ù': 'u', 'ú': 'u', 'ủ': 'u', 'ũ': 'u', 'ụ': 'u',
	'ư': 'u', 'ừ': 'u', 'ứ': 'u', 'ử': 'u', 'ữ': 'u', 'ự': 'u',
	'ỳ': 'y', 'ý': 'y', 'ỷ': 'y', 'ỹ': 'y', 'ỵ': 'y',
}

// Fold приводит строку к нижнему регистру, сворачивает вьетнамскую
// диакритику в латиницу и отбрасывает всё, кроме [a-z ] (пунктуацию, цифры).
func Fold(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if latin, ok := vietnameseChars[r]; ok {
			r = latin
		}
		if (r >= 'a' && r <= 'z') || r == ' ' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// PascalCase приводит строку к виду "Слово Слово": нижний регистр,
// затем каждое слово с заглавной буквы. Политика регистра значений
// атрибутов, применяемая до канонизации и до хэширования.
func PascalCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}

	return strings.Join(words, " ")
}

// Initials возвращает первые буквы каждого слова в верхнем регистре.
// Используется при генерации SKU из названия категории.
func Initials(s string) string {
	var b strings.Builder
	for _, w := range strings.Fields(s) {
		b.WriteString(strings.ToUpper(w[:1]))
	}

	return b.String()
}
