package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCase_NamePatterns(t *testing.T) {
	tests := []struct {
		name      string
		product   string
		wantCase  bool
		wantUnits int
		wantBase  string
	}{
		{"dash pack suffix", "Trail Runner - 12-Pack", true, 12, "Trail Runner"},
		{"case of", "Chalk Ball Case of 24", true, 24, "Chalk Ball"},
		{"pack of", "Pack of 6 Wristbands", true, 6, "Wristbands"},
		{"carton of", "Energy Gel Carton of 48", true, 48, "Energy Gel"},
		{"box of", "Tape Roll Box of 32", true, 32, "Tape Roll"},
		{"parenthesized count", "Sock Liner (3 pk)", true, 3, "Sock Liner"},
		{"plain product", "Trail Runner", false, 0, ""},
		{"numeric in name is not a pack", "Instinct VS 42", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ClassifyCase(tt.product, "", nil)

			assert.Equal(t, tt.wantCase, info.IsCase)
			if tt.wantCase {
				require.NotNil(t, info.UnitsPerCase)
				assert.Equal(t, tt.wantUnits, *info.UnitsPerCase)
				assert.Equal(t, tt.wantBase, info.BaseName)
			} else {
				assert.Nil(t, info.UnitsPerCase)
			}
		})
	}
}

func TestClassifyCase_SKUPatterns(t *testing.T) {
	tests := []struct {
		name      string
		sku       string
		wantUnits int
		wantBase  string
	}{
		{"CS suffix", "TR100-CS24", 24, "TR100"},
		{"CASE suffix", "CB200-CASE12", 12, "CB200"},
		{"PK suffix", "WB300-6PK", 6, "WB300"},
		{"CT suffix", "EG400-48CT", 48, "EG400"},
		{"BX suffix", "TP500-BX32", 32, "TP500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ClassifyCase("", tt.sku, nil)

			assert.True(t, info.IsCase)
			require.NotNil(t, info.UnitsPerCase)
			assert.Equal(t, tt.wantUnits, *info.UnitsPerCase)
			assert.Equal(t, tt.wantBase, info.BaseSKU)
			assert.Equal(t, tt.sku, info.CaseSKU)
		})
	}
}

func TestClassifyCase_ExplicitQuantityWins(t *testing.T) {
	qty := 36
	info := ClassifyCase("Trail Runner - 12-Pack", "TR100-CS24", &qty)

	assert.True(t, info.IsCase)
	require.NotNil(t, info.UnitsPerCase)
	assert.Equal(t, 36, *info.UnitsPerCase)
	// base identifiers still derive from the name and SKU patterns
	assert.Equal(t, "Trail Runner", info.BaseName)
	assert.Equal(t, "TR100", info.BaseSKU)
}

func TestClassifyCase_ExplicitQuantityOfOneIsNotACase(t *testing.T) {
	qty := 1
	info := ClassifyCase("Trail Runner", "TR100", &qty)

	assert.False(t, info.IsCase)
}

func TestClassifyCase_NameMatchStillDerivesBaseSKU(t *testing.T) {
	// classification hit on the name; the SKU carries its own suffix
	info := ClassifyCase("Chalk Ball Case of 24", "CB100-CS24", nil)

	assert.True(t, info.IsCase)
	assert.Equal(t, "CB100", info.BaseSKU)
	assert.Equal(t, "Chalk Ball", info.BaseName)
}

func TestClassifyCase_NoStripMeansNoBase(t *testing.T) {
	qty := 12
	info := ClassifyCase("Mystery Bundle", "MB900", &qty)

	assert.True(t, info.IsCase)
	assert.Empty(t, info.BaseSKU)
	assert.Empty(t, info.BaseName)
}
