package request

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ndewijer/stock-ledger-backend/internal/model"
)

// ParseTransactionListParams extracts and validates the listing query parameters.
//
// Validation rules:
//   - page: integer >= 1 (defaults to 1)
//   - page_size: integer between 1 and 100 (defaults to 20)
//   - stock_symbol: optional, matched case-insensitively
//   - the row offset (page-1)*page_size must fit in an int
//
// Returns an error if any parameter fails validation.
func ParseTransactionListParams(query url.Values) (model.TransactionFilter, error) {
	filter := model.TransactionFilter{
		Symbol:   strings.ToUpper(strings.TrimSpace(query.Get("stock_symbol"))),
		Page:     1,
		PageSize: model.DefaultPageSize,
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return model.TransactionFilter{}, fmt.Errorf("invalid page: must be an integer >= 1")
		}
		filter.Page = page
	}

	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > model.MaxPageSize {
			return model.TransactionFilter{}, fmt.Errorf("invalid page_size: must be between 1 and %d", model.MaxPageSize)
		}
		filter.PageSize = size
	}

	if filter.Page-1 > math.MaxInt/filter.PageSize {
		return model.TransactionFilter{}, fmt.Errorf("invalid page: too large for page_size %d", filter.PageSize)
	}

	return filter, nil
}
