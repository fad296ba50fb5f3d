package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/ordering"
)

// sortableColumns whitelists participant columns accepted in order_by.
var sortableColumns = map[string]string{
	"created_at":          "created_at",
	"updated_at":          "updated_at",
	"status":              "status",
	"type":                "type",
	"status_changed_at":   "status_changed_at",
	"lead_request_status": "lead_request_status",
}

// orderByRequest adapts a raw order_by string to ordering.Request.
type orderByRequest string

func (r orderByRequest) GetOrderBy() string { return string(r) }

// ParseParticipantOrderBy parses an AIP-132 order_by expression into a SQL
// ORDER BY fragment restricted to whitelisted columns. Returns an empty
// string for an empty expression.
func ParseParticipantOrderBy(orderByStr string) (string, error) {
	if strings.TrimSpace(orderByStr) == "" {
		return "", nil
	}

	orderBy, err := ordering.ParseOrderBy(orderByRequest(orderByStr))
	if err != nil {
		return "", fmt.Errorf("parse order_by: %w", err)
	}

	fragments := make([]string, 0, len(orderBy.Fields))
	for _, field := range orderBy.Fields {
		column, ok := sortableColumns[field.Path]
		if !ok {
			return "", fmt.Errorf("unsupported order_by field: %s", field.Path)
		}
		direction := "ASC"
		if field.Desc {
			direction = "DESC"
		}
		fragments = append(fragments, column+" "+direction)
	}
	return strings.Join(fragments, ", "), nil
}
