package marketplace

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pricescope/backend/internal/domain"
)

// mapListing folds one raw scraper result into a domain listing. Scrapers
// disagree on key casing (TITLE vs title vs Image_Url) and price typing
// (string vs number), so keys are folded case-insensitively and prices are
// stringified. Records without a title are unmatchable and dropped.
func mapListing(raw json.RawMessage) (domain.Listing, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.Listing{}, false
	}

	folded := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		folded[foldKey(k)] = v
	}

	listing := domain.Listing{
		Title:       stringField(folded, "title"),
		Price:       priceField(folded, "price"),
		Link:        stringField(folded, "link"),
		ImageURL:    stringField(folded, "imageurl"),
		Brand:       stringField(folded, "brand"),
		ModelNumber: stringField(folded, "modelnumber"),
	}
	if listing.Link == "" {
		listing.Link = stringField(folded, "url")
	}

	if strings.TrimSpace(listing.Title) == "" {
		return domain.Listing{}, false
	}
	return listing, true
}

// foldKey lowercases a field name and drops separators, so "Image_Url",
// "imageUrl", and "image_url" all land on "imageurl"
func foldKey(k string) string {
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, "_", "")
	k = strings.ReplaceAll(k, "-", "")
	return k
}

func stringField(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// priceField keeps the price as raw text; numeric payloads are formatted
// back into strings so downstream parsing has one input shape
func priceField(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
