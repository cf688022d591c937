package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if column, ok := allowedFields[trimmed]; ok {
		return column
	}
	return defaultField
}

// Sort whitelists map the public sort key to its column.

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]string{
	"id":                    "id",
	"created_at":            "created_at",
	"updated_at":            "updated_at",
	"number":                "number",
	"amount":                "amount",
	"applied":               "applied",
	"refunded":              "refunded",
	"date":                  "payment_date",
	"status_id":             "status_id",
	"transaction_reference": "transaction_reference",
}

// DocumentSortFields contains allowed sort fields for documents
var DocumentSortFields = map[string]string{
	"id":         "id",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "name",
	"type":       "type",
	"size":       "size",
}
