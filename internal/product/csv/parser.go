// Package csv parses catalog bulk uploads. The format is deliberately
// plain: a comma-delimited header row followed by data rows, with no
// quoting or escaping. encoding/csv is not used because it would accept
// quoted fields the upload contract rejects.
package csv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// RequiredHeaders are the columns every upload must declare.
var RequiredHeaders = []string{"name", "price", "company", "address", "contactNumber", "email"}

const optionalCostPriceHeader = "costPrice"

// Row is one accepted upload line.
type Row struct {
	Name          string
	Price         decimal.Decimal
	Company       string
	Address       string
	ContactNumber string
	Email         string
	CostPrice     *decimal.Decimal
}

// RowError is a rejected upload line. Line numbers are 1-based and count
// the header row, matching what an editor shows.
type RowError struct {
	Line   int    `json:"line"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// MissingHeadersError lists every required header absent from the upload.
type MissingHeadersError struct {
	Headers []string
}

func (e *MissingHeadersError) Error() string {
	return fmt.Sprintf("missing required headers: %s", strings.Join(e.Headers, ", "))
}

// Parse reads the upload text. Rows with the wrong field count or
// malformed numerics are reported per line instead of silently dropped;
// the remaining valid rows are returned in input order.
func Parse(text string) ([]Row, []RowError, error) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, nil, &MissingHeadersError{Headers: append([]string(nil), RequiredHeaders...)}
	}

	headers := splitFields(lines[0])
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	var missing []string
	for _, h := range RequiredHeaders {
		if _, ok := index[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, nil, &MissingHeadersError{Headers: missing}
	}

	costPriceCol, hasCostPrice := index[optionalCostPriceHeader]

	var rows []Row
	var rowErrs []RowError

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		lineNo := i + 1

		values := splitFields(lines[i])
		if len(values) != len(headers) {
			rowErrs = append(rowErrs, RowError{
				Line:   lineNo,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(headers), len(values)),
			})
			continue
		}

		price, err := decimal.NewFromString(values[index["price"]])
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: lineNo, Field: "price", Reason: "malformed number"})
			continue
		}
		if !price.IsPositive() {
			rowErrs = append(rowErrs, RowError{Line: lineNo, Field: "price", Reason: "price must be positive"})
			continue
		}

		row := Row{
			Name:          values[index["name"]],
			Price:         price,
			Company:       values[index["company"]],
			Address:       values[index["address"]],
			ContactNumber: values[index["contactNumber"]],
			Email:         values[index["email"]],
		}

		if hasCostPrice && values[costPriceCol] != "" {
			costPrice, err := decimal.NewFromString(values[costPriceCol])
			if err != nil {
				rowErrs = append(rowErrs, RowError{Line: lineNo, Field: "costPrice", Reason: "malformed number"})
				continue
			}
			if costPrice.IsNegative() {
				rowErrs = append(rowErrs, RowError{Line: lineNo, Field: "costPrice", Reason: "cost price must not be negative"})
				continue
			}
			row.CostPrice = &costPrice
		}

		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
