// Package i18n renders resolved tariffs as customer-facing text in Uzbek,
// Russian and English.
package i18n

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"deliverytariff/internal/tariff"
)

type Locale int

const (
	En Locale = iota
	Ru
	Uz
)

type phrases struct {
	tag       language.Tag
	code      string
	within24h string
	within48h string
	within72h string
	currency  string
	free      string
	estimated string
	kg        string
	g         string
}

var table = map[Locale]phrases{
	En: {
		tag:       language.English,
		code:      "en",
		within24h: "Within 24 hours",
		within48h: "Within 48 hours",
		within72h: "Within 48–72 hours",
		currency:  "so'm",
		free:      "Free",
		estimated: "(estimated)",
		kg:        "kg",
		g:         "g",
	},
	Ru: {
		tag:       language.Russian,
		code:      "ru",
		within24h: "В течение 24 часов",
		within48h: "В течение 48 часов",
		within72h: "В течение 48–72 часов",
		currency:  "сум",
		free:      "Бесплатно",
		estimated: "(ориентировочно)",
		kg:        "кг",
		g:         "г",
	},
	Uz: {
		tag:       language.Uzbek,
		code:      "uz",
		within24h: "24 soat ichida",
		within48h: "48 soat ichida",
		within72h: "48–72 soat ichida",
		currency:  "so'm",
		free:      "Bepul",
		estimated: "(taxminiy)",
		kg:        "kg",
		g:         "g",
	},
}

// ParseLocale maps a language tag such as "uz", "ru-RU" or "uz-Latn-UZ" to a
// Locale. Anything unrecognized is English.
func ParseLocale(tag string) Locale {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return En
	}
	base, _ := t.Base()
	for l, p := range table {
		if p.code == base.String() {
			return l
		}
	}
	return En
}

func (l Locale) phrases() phrases {
	if p, ok := table[l]; ok {
		return p
	}
	return table[En]
}

func (l Locale) String() string { return l.phrases().code }

// FormatETA buckets the tariff ETA into 24h, 48h or 48–72h.
func FormatETA(l Locale, t tariff.Tariff) string {
	p := l.phrases()
	switch {
	case t.ETAHours <= 24:
		return p.within24h
	case t.ETAHours <= 48:
		return p.within48h
	default:
		return p.within72h
	}
}

// FormatPrice prints the price with locale digit grouping and currency, and
// marks fallback estimates.
func FormatPrice(l Locale, t tariff.Tariff) string {
	p := l.phrases()
	var s string
	if t.Price == 0 {
		s = p.free
	} else {
		s = message.NewPrinter(p.tag).Sprintf("%d %s", t.Price, p.currency)
	}
	if t.Estimated() {
		s += " " + p.estimated
	}
	return s
}

// FormatWeight prints grams below one kilogram and kilograms otherwise.
func FormatWeight(l Locale, weightKg float64) string {
	p := l.phrases()
	pr := message.NewPrinter(p.tag)
	if grams := int64(math.Round(weightKg * 1000)); grams < 1000 {
		return pr.Sprintf("%d %s", grams, p.g)
	}
	return pr.Sprintf("%v %s", number.Decimal(weightKg, number.MaxFractionDigits(2)), p.kg)
}
