package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pricescope/backend/internal/domain"
)

var (
	nonPriceCharsRegex = regexp.MustCompile(`[^0-9.]`)
	thousandsDotRegex  = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
)

// ParsePrice folds a raw scraped price string into a Price. Currency symbols
// and grouping separators are stripped; the two sentinel strings are
// preserved distinctly rather than coerced into a failed parse.
func ParsePrice(raw string) domain.Price {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.Price{State: domain.PriceNotFound}
	}

	upper := strings.ToUpper(trimmed)
	switch {
	case upper == string(domain.PriceOutOfStock) || strings.Contains(strings.ToLower(trimmed), "out of stock"):
		return domain.Price{State: domain.PriceOutOfStock}
	case upper == string(domain.PriceNotFound) || strings.Contains(strings.ToLower(trimmed), "not found"):
		return domain.Price{State: domain.PriceNotFound}
	}

	cleaned := nonPriceCharsRegex.ReplaceAllString(trimmed, "")
	if cleaned == "" {
		return domain.Price{State: domain.PriceNotFound}
	}

	// European grouping like "1.234.567" keeps its dots after stripping;
	// fold them away so the amount parses as a whole number
	if thousandsDotRegex.MatchString(cleaned) {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return domain.Price{State: domain.PriceNotFound}
	}

	return domain.Price{Amount: amount, State: domain.PriceAvailable}
}
