package payslip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "Zero"},
		{7, "Seven"},
		{19, "Nineteen"},
		{40, "Forty"},
		{54000, "Fifty Four Thousand"},
		{100, "One Hundred"},
		{118, "One Hundred Eighteen"},
		{1000, "One Thousand"},
		{23500, "Twenty Three Thousand Five Hundred"},
		{100000, "One Lakh"},
		{578400, "Five Lakh Seventy Eight Thousand Four Hundred"},
		{10000000, "One Crore"},
		{12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight"},
		{-500, "Minus Five Hundred"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, AmountInWords(tc.n), "n=%d", tc.n)
	}
}
