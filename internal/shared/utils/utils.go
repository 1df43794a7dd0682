package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func ParseStringToUUID(s string) uuid.UUID {
	uid, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || s == "" {
		return uuid.Nil
	}
	return uid
}

// Ratio returns numerator/denominator rounded to 2 places, zero when denominator is zero
func Ratio(numerator, denominator int64) decimal.Decimal {
	if denominator == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(numerator).
		DivRound(decimal.NewFromInt(denominator), 2)
}

// TotalPages computes the page count for a paginated listing
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
