// Package portalcsv parses beneficiary roster CSVs exported from bank
// web portals. Exports come with inconsistent header spellings and, from
// older portals, in legacy single-byte encodings, so parsing starts with
// encoding normalization and matches headers loosely.
package portalcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/avelines/remit/internal/beneficiary"
	enc "github.com/avelines/remit/internal/encoding"
)

// Header aliases seen across portal exports, all compared lower-cased.
var headerAliases = map[string][]string{
	"name":           {"name", "beneficiary", "beneficiary name", "recipient"},
	"account_number": {"account number", "account_no", "account", "iban"},
	"bank_name":      {"bank", "bank name", "institution"},
	"country":        {"country", "country code"},
	"currency":       {"currency", "ccy"},
}

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]beneficiary.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx := detectHeader(rows)
	if cols == nil {
		return nil, fmt.Errorf("no roster header found: expected at least name and account number columns")
	}

	var out []beneficiary.CreateParams

	for _, row := range rows[headerIdx+1:] {
		params := beneficiary.CreateParams{
			Name:          cell(row, cols, "name"),
			AccountNumber: cell(row, cols, "account_number"),
			BankName:      cell(row, cols, "bank_name"),
			Country:       strings.ToUpper(cell(row, cols, "country")),
			Currency:      strings.ToUpper(cell(row, cols, "currency")),
		}

		// Blank lines and footer rows carry no account number.
		if params.Name == "" && params.AccountNumber == "" {
			continue
		}

		out = append(out, params)
	}

	return out, nil
}

// colIndex maps canonical field names to their column position.
type colIndex map[string]int

// detectHeader scans for the first row that contains at least the name and
// account-number columns under any known alias.
func detectHeader(rows [][]string) (colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, c := range row {
			header := strings.ToLower(strings.TrimSpace(c))

			for field, aliases := range headerAliases {
				for _, alias := range aliases {
					if header == alias {
						cols[field] = i
					}
				}
			}
		}

		if _, ok := cols["name"]; !ok {
			continue
		}

		if _, ok := cols["account_number"]; ok {
			return cols, rowIdx
		}
	}

	return nil, 0
}

func cell(row []string, cols colIndex, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
