package repo

import (
	"math/big"
	"strings"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
)

// Spanner NUMERIC carries scale 9; enough for deli prices in pesos.
const numericScale = 9

func ratToDecimal(r *big.Rat) decimal.Decimal {
	return decimal.NewFromBigRat(r, numericScale)
}

func decimalToRat(d decimal.Decimal) big.Rat {
	return *d.Rat()
}

func nullString(s string) spanner.NullString {
	if s == "" {
		return spanner.NullString{}
	}
	return spanner.NullString{StringVal: s, Valid: true}
}

func fromNullString(s spanner.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.StringVal
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
