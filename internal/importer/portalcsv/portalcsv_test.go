package portalcsv_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelines/remit/internal/importer/portalcsv"
)

func TestParser_Parse(t *testing.T) {
	input := strings.Join([]string{
		"Exported 2025-06-01",
		"",
		"Beneficiary,IBAN,Bank,Country,Currency",
		"Amara Okafor,DE89370400440532013000,Commerzbank,de,eur",
		"João Pereira,PT50000201231234567890154,CGD,PT,EUR",
		"",
		"Total: 2 rows",
	}, "\n")

	parser := portalcsv.New()

	got, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Amara Okafor", got[0].Name)
	assert.Equal(t, "DE89370400440532013000", got[0].AccountNumber)
	assert.Equal(t, "Commerzbank", got[0].BankName)
	assert.Equal(t, "DE", got[0].Country)
	assert.Equal(t, "EUR", got[0].Currency)

	assert.Equal(t, "João Pereira", got[1].Name)

	// The footer row survives parsing with only a name; the beneficiary
	// service skips it as incomplete.
	assert.Equal(t, "Total: 2 rows", got[2].Name)
	assert.Empty(t, got[2].AccountNumber)
}

func TestParser_Parse_AlternateHeaders(t *testing.T) {
	input := "name,account number,bank name,country code,ccy\nLiu Wei,CN12345678,ICBC,CN,CNY\n"

	parser := portalcsv.New()

	got, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Liu Wei", got[0].Name)
	assert.Equal(t, "CN12345678", got[0].AccountNumber)
}

func TestParser_Parse_NoHeader(t *testing.T) {
	parser := portalcsv.New()

	_, err := parser.Parse(strings.NewReader("just,some,cells\n1,2,3\n"))
	assert.Error(t, err)
}

func TestParser_Parse_Windows1252(t *testing.T) {
	// "José" with é encoded as Windows-1252 0xE9.
	input := []byte("Beneficiary,IBAN\nJos\xe9,ES9121000418450200051332\n")

	parser := portalcsv.New()

	got, err := parser.Parse(strings.NewReader(string(input)))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "José", got[0].Name)
}
