package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func dp(v string) *decimal.Decimal {
	dec := decimal.RequireFromString(v)
	return &dec
}

func TestQuotaShare(t *testing.T) {
	tests := []struct {
		name       string
		exposure   string
		cessionPct string
		limit      *decimal.Decimal
		want       string
	}{
		{name: "plain cession", exposure: "1000000", cessionPct: "0.30", want: "300000"},
		{name: "limit binds below unclamped cession", exposure: "1000000", cessionPct: "0.30", limit: dp("100000"), want: "100000"},
		{name: "limit above cession does not bind", exposure: "1000000", cessionPct: "0.30", limit: dp("500000"), want: "300000"},
		{name: "zero exposure", exposure: "0", cessionPct: "0.30", want: "0"},
		{name: "full cession", exposure: "250000", cessionPct: "1", want: "250000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuotaShare(d(tt.exposure), d(tt.cessionPct), tt.limit)
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestQuotaShareRejectsInvalidTerms(t *testing.T) {
	_, err := QuotaShare(d("1000"), d("1.1"), nil)
	assert.Error(t, err)

	_, err = QuotaShare(d("1000"), d("-0.1"), nil)
	assert.Error(t, err)

	_, err = QuotaShare(d("1000"), d("0.5"), dp("-1"))
	assert.Error(t, err)
}

func TestExcessOfLoss(t *testing.T) {
	tests := []struct {
		name       string
		exposure   string
		attachment string
		limit      string
		want       string
	}{
		{name: "capped by limit", exposure: "30000000", attachment: "10000000", limit: "15000000", want: "15000000"},
		{name: "below attachment", exposure: "5000000", attachment: "10000000", limit: "15000000", want: "0"},
		{name: "exactly at attachment", exposure: "10000000", attachment: "10000000", limit: "15000000", want: "0"},
		{name: "inside layer", exposure: "18000000", attachment: "10000000", limit: "15000000", want: "8000000"},
		{name: "zero attachment behaves like ground-up", exposure: "4000000", attachment: "0", limit: "15000000", want: "4000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExcessOfLoss(d(tt.exposure), d(tt.attachment), d(tt.limit))
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestExcessOfLossRejectsInvalidTerms(t *testing.T) {
	_, err := ExcessOfLoss(d("1000"), d("-1"), d("500"))
	assert.Error(t, err)

	_, err = ExcessOfLoss(d("1000"), d("100"), d("-500"))
	assert.Error(t, err)
}
