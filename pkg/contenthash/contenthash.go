// Package contenthash вычисляет контентно-адресуемые идентификаторы сущностей.
// Идентификатор — md5-дайджест канонической строковой формы кортежа полей.
// Две логически одинаковые записи, даже собранные в разных запусках или из
// разных исходных файлов, получают один и тот же идентификатор; на этом
// свойстве держится идемпотентная загрузка "insert, если hash ещё не встречался".
package contenthash

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// separator — фиксированный разделитель полей в канонической форме.
const separator = " "

// timeLayout — каноническое представление временных полей.
const timeLayout = "2006-01-02 15:04:05"

// Sum вычисляет идентификатор по уже канонизированным значениям полей
// в объявленном порядке. Отсутствующие значения передаются пустой строкой.
func Sum(fields ...string) string {
	digest := md5.Sum([]byte(strings.Join(fields, separator)))
	return hex.EncodeToString(digest[:])
}

// Int — каноническая форма целочисленного поля.
func Int(v int64) string {
	return strconv.FormatInt(v, 10)
}

// Float — каноническая форма поля с плавающей точкой: фиксированные
// 6 знаков, чтобы исключить платформозависимое форматирование.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Decimal — каноническая форма денежного поля, те же 6 знаков.
func Decimal(v decimal.Decimal) string {
	return v.StringFixed(6)
}

// Time — каноническая форма временного поля.
func Time(t time.Time) string {
	return t.Format(timeLayout)
}

// NullTime — каноническая форма необязательного временного поля.
func NullTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

// NullString — каноническая форма необязательного строкового поля.
func NullString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NullInt — каноническая форма необязательного целочисленного поля.
func NullInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
