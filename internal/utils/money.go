package utils

import (
	"strconv"
	"strings"
)

// FormatAmount renders a whole-unit amount with space thousand separators and
// the currency label, e.g. "45 000 FCFA".
func FormatAmount(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	out := sign + formatThousand(amount)
	if label := currencyLabel(currency); label != "" {
		out += " " + label
	}
	return out
}

func currencyLabel(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "XOF", "XAF":
		return "FCFA"
	default:
		return strings.ToUpper(strings.TrimSpace(code))
	}
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(' ')
		}
		out.WriteRune(c)
	}
	return out.String()
}
