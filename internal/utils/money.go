package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRupee renders an integer amount as "₹1,200".
func FormatRupee(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s₹%s", sign, formatThousand(amount))
}

// FormatRupeeASCII is FormatRupee for renderers without the rupee glyph.
func FormatRupeeASCII(amount int64) string {
	return strings.Replace(FormatRupee(amount), "₹", "Rs. ", 1)
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
