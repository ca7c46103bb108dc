// Package utils provides shared utility functions.
package utils

import "fmt"

// FormatAmount renders a quote-currency amount with two decimal places and
// the currency suffix. Presentation only: never feed formatted values back
// into ratio or ROI math.
func FormatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// FormatPercent renders a percentage with two decimal places.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatSigned renders an amount with an explicit sign, two decimals and
// the currency suffix.
func FormatSigned(amount float64, currency string) string {
	if amount > 0 {
		return fmt.Sprintf("+%.2f %s", amount, currency)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}
