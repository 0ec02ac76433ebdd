package render

import (
	"fmt"
	"strings"

	"github.com/printstudio/docengine/internal/domain/document"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is rendered wherever an expected document field is absent
const Placeholder = "-"

var printer = message.NewPrinter(language.English)

// Money formats an amount with thousands grouping and two decimals, e.g. 1,605.00
func Money(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	frac := fixed[len(fixed)-2:]
	return sign + printer.Sprintf("%d", d.IntPart()) + "." + frac
}

// MoneyPtr formats an optional amount, returning the placeholder for nil
func MoneyPtr(d *decimal.Decimal) string {
	if d == nil {
		return Placeholder
	}
	return Money(*d)
}

// Quantity formats a quantity without trailing zeros, grouped
func Quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return printer.Sprintf("%d", d.IntPart())
	}
	return d.String()
}

var thaiMonths = []string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// ThaiDate formats a date in the Buddhist era, e.g. 15 กรกฎาคม 2567
func ThaiDate(d *document.Date) string {
	if !d.IsSet() {
		return Placeholder
	}
	return fmt.Sprintf("%d %s %d", d.Day(), thaiMonths[d.Month()-1], d.Year()+543)
}

// ShortDate formats a date as DD/MM/YYYY in the Gregorian calendar
func ShortDate(d *document.Date) string {
	if !d.IsSet() {
		return Placeholder
	}
	return d.Format("02/01/2006")
}

// OrDash returns s, or the placeholder when s is blank
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

var (
	thaiDigits = []string{"ศูนย์", "หนึ่ง", "สอง", "สาม", "สี่", "ห้า", "หก", "เจ็ด", "แปด", "เก้า"}
	thaiPlaces = []string{"", "สิบ", "ร้อย", "พัน", "หมื่น", "แสน"}
)

// ThaiBahtText spells an amount the way Thai receipts do, e.g.
// หนึ่งพันหกร้อยห้าบาทถ้วน
func ThaiBahtText(d decimal.Decimal) string {
	d = d.Round(2)
	prefix := ""
	if d.IsNegative() {
		prefix = "ลบ"
		d = d.Neg()
	}

	baht := d.IntPart()
	satang := d.Sub(decimal.NewFromInt(baht)).Mul(decimal.NewFromInt(100)).IntPart()

	if baht == 0 && satang == 0 {
		return "ศูนย์บาทถ้วน"
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	if baht > 0 {
		sb.WriteString(thaiNumber(baht))
		sb.WriteString("บาท")
	}
	if satang == 0 {
		sb.WriteString("ถ้วน")
	} else {
		sb.WriteString(thaiNumber(satang))
		sb.WriteString("สตางค์")
	}
	return sb.String()
}

// thaiNumber spells a positive integer. Millions repeat the six place names.
func thaiNumber(n int64) string {
	if n == 0 {
		return thaiDigits[0]
	}

	var groups []int64
	for n > 0 {
		groups = append(groups, n%1_000_000)
		n /= 1_000_000
	}

	var sb strings.Builder
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g > 0 {
			sb.WriteString(thaiGroup(g, sb.Len() > 0))
		}
		if i > 0 {
			sb.WriteString("ล้าน")
		}
	}
	return sb.String()
}

func thaiGroup(n int64, hasHigher bool) string {
	var sb strings.Builder
	digits := []int64{}
	for v := n; v > 0; v /= 10 {
		digits = append(digits, v%10)
	}

	for place := len(digits) - 1; place >= 0; place-- {
		digit := digits[place]
		if digit == 0 {
			continue
		}
		switch {
		case place == 1 && digit == 1:
			// สิบ, never หนึ่งสิบ
		case place == 1 && digit == 2:
			sb.WriteString("ยี่")
		case place == 0 && digit == 1 && (n > 10 || hasHigher):
			sb.WriteString("เอ็ด")
		default:
			sb.WriteString(thaiDigits[digit])
		}
		sb.WriteString(thaiPlaces[place])
	}
	return sb.String()
}

var (
	englishOnes = []string{
		"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	englishTens   = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
	englishScales = []string{"", "Thousand", "Million", "Billion", "Trillion", "Quadrillion", "Quintillion"}
)

// EnglishBahtText spells an amount in English, e.g.
// One Thousand Six Hundred Five Baht Only
func EnglishBahtText(d decimal.Decimal) string {
	d = d.Round(2)
	prefix := ""
	if d.IsNegative() {
		prefix = "Minus "
		d = d.Neg()
	}

	baht := d.IntPart()
	satang := d.Sub(decimal.NewFromInt(baht)).Mul(decimal.NewFromInt(100)).IntPart()

	text := prefix + englishNumber(baht) + " Baht"
	if satang == 0 {
		return text + " Only"
	}
	return text + " and " + englishNumber(satang) + " Satang"
}

func englishNumber(n int64) string {
	if n == 0 {
		return englishOnes[0]
	}

	var parts []string
	for scale := 0; n > 0 && scale < len(englishScales); scale++ {
		chunk := n % 1000
		n /= 1000
		if chunk == 0 {
			continue
		}
		words := englishChunk(chunk)
		if englishScales[scale] != "" {
			words += " " + englishScales[scale]
		}
		parts = append([]string{words}, parts...)
	}
	return strings.Join(parts, " ")
}

func englishChunk(n int64) string {
	var words []string
	if n >= 100 {
		words = append(words, englishOnes[n/100], "Hundred")
		n %= 100
	}
	switch {
	case n >= 20:
		w := englishTens[n/10]
		if n%10 > 0 {
			w += "-" + englishOnes[n%10]
		}
		words = append(words, w)
	case n > 0:
		words = append(words, englishOnes[n])
	}
	return strings.Join(words, " ")
}
