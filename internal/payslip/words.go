package payslip

import "strings"

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

func twoDigits(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + onesWords[n%10]
}

func threeDigits(n int64) string {
	var b strings.Builder
	if n >= 100 {
		b.WriteString(onesWords[n/100])
		b.WriteString(" Hundred")
		if n%100 != 0 {
			b.WriteString(" ")
		}
	}
	if n%100 != 0 {
		b.WriteString(twoDigits(n % 100))
	}
	return b.String()
}

// AmountInWords spells out a rupee amount using Indian grouping
// (crore/lakh/thousand). Negative amounts are prefixed with "Minus".
func AmountInWords(n int64) string {
	if n == 0 {
		return "Zero"
	}

	var parts []string
	if n < 0 {
		parts = append(parts, "Minus")
		n = -n
	}

	if crore := n / 10000000; crore > 0 {
		parts = append(parts, threeDigits(crore)+" Crore")
	}
	n %= 10000000
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, threeDigits(lakh)+" Lakh")
	}
	n %= 100000
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, threeDigits(thousand)+" Thousand")
	}
	n %= 1000
	if n > 0 {
		parts = append(parts, threeDigits(n))
	}
	return strings.Join(parts, " ")
}
