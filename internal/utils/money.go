package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Round2 rounds a currency amount to 2 decimal places, half away from zero.
// Derived money values are rounded at the point of computation so that
// re-summing displayed line items never disagrees with the displayed total.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatCurrency renders an amount as "$1,234.56" for display. Arithmetic
// always works on the numeric values, never on formatted strings.
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents >= 100 {
		whole++
		cents -= 100
	}

	return fmt.Sprintf("%s$%s.%02d", sign, formatThousand(whole), cents)
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
