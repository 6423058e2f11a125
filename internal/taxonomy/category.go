package taxonomy

import (
	"strings"

	"github.com/DRSN-tech/eshop-etl/internal/domain"
)

// ReclassRule — одно правило переразметки категории по ключевым словам в
// названии продукта. Правила источника применяются по порядку к исходной
// категории строки; совпадение более позднего правила перекрывает более
// раннее (закреплённый приоритет — последний побеждает).
type ReclassRule struct {
	// WhenCategoryIn ограничивает правило строками с одной из перечисленных
	// исходных категорий; пустой список — любая категория.
	WhenCategoryIn []string
	// NameKeywords — подстроки названия, любая из которых активирует правило.
	NameKeywords []string
	// CaseSensitive отключает приведение названия к нижнему регистру
	// перед поиском подстрок.
	CaseSensitive bool
	Assign        string
}

// Source описывает один файл-источник: ключи объектов в бакете и правила
// приведения его сырых категорий к единой таксономии.
type Source struct {
	Key          string
	ProductFile  string
	FeedbackFile string
	ResponseFile string

	// ForceCategory перезаписывает категорию всех строк источника.
	ForceCategory string
	// Remap — простая замена сырой метки до ключевых правил.
	Remap map[string]string
	// Reclass — упорядоченные ключевые правила.
	Reclass []ReclassRule
	// FinalRemap — замена меток, оставшихся после ключевых правил.
	FinalRemap map[string]string
}

// Sources — закреплённый порядок файлов-источников. Порядок несёт семантику:
// он определяет порядок строк каталога и, значит, порядок потребления
// генератора случайности.
var Sources = []Source{
	{
		Key:          "dienthoai",
		ProductFile:  "dienthoai.csv",
		FeedbackFile: "dienthoai_fb.csv",
		ResponseFile: "dienthoai_fb_ma.csv",
		Remap: map[string]string{
			"Điện Thoại - Máy Tính Bảng": "Điện thoại Smartphone",
			"Root":                       "Điện thoại Smartphone",
			"Phụ kiện":                   "Phụ kiện điện thoại",
		},
	},
	{
		Key:           "mayban",
		ProductFile:   "dienthoaiban.csv",
		FeedbackFile:  "dienthoaiban_fb.csv",
		ResponseFile:  "dienthoaiban_fb_ma.csv",
		ForceCategory: "Điện thoại bàn",
	},
	{
		Key:           "cucgach",
		ProductFile:   "dienthoaiphothong.csv",
		FeedbackFile:  "dienthoaiphothong_fb.csv",
		ResponseFile:  "dienthoaiphothong_fb_ma.csv",
		ForceCategory: "Điện thoại phổ thông",
	},
	{
		Key:          "dieuhoa",
		ProductFile:  "dieuhoa.csv",
		FeedbackFile: "dieuhoa_fb.csv",
		ResponseFile: "dieuhoa_fb_ma.csv",
	},
	{
		Key:          "laptop",
		ProductFile:  "laptop.csv",
		FeedbackFile: "laptop_fb.csv",
		ResponseFile: "laptop_fb_ma.csv",
		Remap: map[string]string{
			"Laptop - Máy Vi Tính - Linh kiện": "Laptop Truyền Thống",
			"Laptop":                           "Laptop Truyền Thống",
			"Root":                             "Laptop Truyền Thống",
		},
	},
	{
		Key:           "maydocsach",
		ProductFile:   "maydocsach.csv",
		FeedbackFile:  "maydocsach_fb.csv",
		ResponseFile:  "maydocsach_fb_ma.csv",
		ForceCategory: "Máy đọc sách",
		Reclass: []ReclassRule{
			{NameKeywords: []string{"máy tính bảng"}, Assign: "Máy tính bảng"},
		},
	},
	{
		Key:          "maygiat",
		ProductFile:  "maygiat.csv",
		FeedbackFile: "maygiat_fb.csv",
		ResponseFile: "maygiat_fb_ma.csv",
	},
	{
		Key:           "maytinhbang",
		ProductFile:   "maytinhbang.csv",
		FeedbackFile:  "maytinhbang_fb.csv",
		ResponseFile:  "maytinhbang_fb_ma.csv",
		ForceCategory: "Máy tính bảng",
	},
	{
		Key:          "tivi",
		ProductFile:  "tivi.csv",
		FeedbackFile: "tivi_fb.csv",
		ResponseFile: "tivi_fb_ma.csv",
		Reclass: []ReclassRule{
			{WhenCategoryIn: []string{"Điện Tử - Điện Lạnh", "Root"}, NameKeywords: []string{"oled"}, Assign: "Tivi OLED"},
			{WhenCategoryIn: []string{"Điện Tử - Điện Lạnh", "Root"}, NameKeywords: []string{"qled"}, Assign: "Tivi QLED"},
			{WhenCategoryIn: []string{"Điện Tử - Điện Lạnh", "Root"}, NameKeywords: []string{"smart", "android"}, Assign: "Smart Tivi - Android Tivi"},
			{WhenCategoryIn: []string{"Điện Tử - Điện Lạnh", "Root"}, NameKeywords: []string{"led"}, Assign: "Tivi thường (LED)"},
			{WhenCategoryIn: []string{"Điện Tử - Điện Lạnh", "Root"}, NameKeywords: []string{"4k"}, Assign: "Tivi 4K"},
		},
		FinalRemap: map[string]string{
			"Điện Tử - Điện Lạnh": "Smart Tivi - Android Tivi",
		},
	},
	{
		Key:          "tulanh",
		ProductFile:  "tulanh.csv",
		FeedbackFile: "tulanh_fb.csv",
		ResponseFile: "tulanh_fb_ma.csv",
		Remap: map[string]string{
			"Điện Tử - Điện Lạnh": "Tủ lạnh",
		},
	},
	{
		Key:          "camgiamsat",
		ProductFile:  "cameragiamsat.csv",
		FeedbackFile: "camera_fb.csv",
		ResponseFile: "camera_fb_ma.csv",
		Remap: map[string]string{
			"Camera IP":                "Camera IP - Camera Wifi",
			"Máy Ảnh - Máy Quay Phim":  "Camera IP - Camera Wifi",
		},
		Reclass: []ReclassRule{
			{WhenCategoryIn: []string{"Root"}, NameKeywords: []string{"ip", "wifi"}, Assign: "Camera IP - Camera Wifi"},
		},
		FinalRemap: map[string]string{
			"Root": "Phụ Kiện Camera Giám Sát",
		},
	},
	{
		Key:          "pc",
		ProductFile:  "maytinhdeban.csv",
		FeedbackFile: "maytinhdeban_fb.csv",
		ResponseFile: "maytinhdeban_fb_ma.csv",
		Remap: map[string]string{
			"Máy Tính Bộ Thương Hiệu": "Máy tính đồng bộ",
			"Root":                    "Máy tính đồng bộ",
			"PC - Máy Tính Bộ":        "Máy tính đồng bộ",
		},
		Reclass: []ReclassRule{
			// Источник различал регистр в этом правиле.
			{WhenCategoryIn: []string{"Laptop - Máy Vi Tính - Linh kiện"}, NameKeywords: []string{"mini", "siêu nhỏ"}, CaseSensitive: true, Assign: "Mini PC"},
		},
		FinalRemap: map[string]string{
			"Laptop - Máy Vi Tính - Linh kiện": "Máy tính đồng bộ",
		},
	},
	{
		Key:          "mayanh",
		ProductFile:  "mayanh.csv",
		FeedbackFile: "mayanh_fb.csv",
		ResponseFile: "mayanh_fb_ma.csv",
	},
}

// SourceByKey возвращает источник по ключу.
func SourceByKey(key string) (Source, bool) {
	for _, s := range Sources {
		if s.Key == key {
			return s, true
		}
	}
	return Source{}, false
}

// ReconcileCategory приводит категорию одной строки источника к единой
// таксономии. Ключевые правила проверяются против исходной (до переразметки)
// категории и названия продукта; последнее совпавшее правило побеждает.
func (s Source) ReconcileCategory(row domain.RawProductRow) string {
	if s.ForceCategory != "" && s.Reclass == nil {
		return s.ForceCategory
	}

	category := row.Category
	if s.ForceCategory != "" {
		category = s.ForceCategory
	} else if mapped, ok := s.Remap[row.Category]; ok {
		category = mapped
	}

	base := category
	result := category
	for _, rule := range s.Reclass {
		if rule.matches(base, row.Name) {
			result = rule.Assign
		}
	}

	if result == base {
		if mapped, ok := s.FinalRemap[result]; ok {
			result = mapped
		}
	}

	return result
}

func (r ReclassRule) matches(category, name string) bool {
	if len(r.WhenCategoryIn) > 0 {
		found := false
		for _, c := range r.WhenCategoryIn {
			if c == category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !r.CaseSensitive {
		name = strings.ToLower(name)
	}
	for _, kw := range r.NameKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}

	return false
}
