package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jshoplabs/jshop/pkg/domain"
)

// formatPrice renders a price the way the storefront shows it.
func formatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// filterProducts returns the products whose names contain query,
// case-insensitively. An empty query returns the input unchanged.
func filterProducts(products []domain.Product, query string) []domain.Product {
	if query == "" {
		return products
	}
	q := strings.ToLower(query)
	var out []domain.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}
