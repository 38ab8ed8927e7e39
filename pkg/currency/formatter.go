package currency

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

const Symbol = "₹"

// FormatINR renders a whole-rupee amount with comma thousands separators,
// e.g. 12345 -> "₹12,345".
func FormatINR(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-" + Symbol + humanize.Comma(-rounded)
	}
	return Symbol + humanize.Comma(rounded)
}

// Compact renders lakh and thousand amounts in short form: ₹1.2L, ₹5.5K, ₹900.
func Compact(amount float64) string {
	switch {
	case amount >= 100000:
		return fmt.Sprintf("%s%.1fL", Symbol, amount/100000)
	case amount >= 1000:
		return fmt.Sprintf("%s%.1fK", Symbol, amount/1000)
	default:
		return fmt.Sprintf("%s%.0f", Symbol, amount)
	}
}
