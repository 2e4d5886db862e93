package sheet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantNil bool
		wantErr bool
	}{
		{name: "plain", raw: "42.50", want: "42.5"},
		{name: "dollar sign", raw: "$42.50", want: "42.5"},
		{name: "thousands separator", raw: "$1,234.56", want: "1234.56"},
		{name: "surrounding whitespace", raw: "  89 ", want: "89"},
		{name: "euro", raw: "€15", want: "15"},
		{name: "empty is no value", raw: "", wantNil: true},
		{name: "dash is no value", raw: "-", wantNil: true},
		{name: "n/a is no value", raw: "N/A", wantNil: true},
		{name: "garbage errors", raw: "call for pricing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.raw)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantNil bool
		wantErr bool
	}{
		{name: "plain", raw: "12", want: 12},
		{name: "float export", raw: "12.0", want: 12},
		{name: "whitespace", raw: " 6 ", want: 6},
		{name: "empty is no value", raw: "", wantNil: true},
		{name: "dash is no value", raw: "--", wantNil: true},
		{name: "text errors", raw: "a dozen", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.raw)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}
