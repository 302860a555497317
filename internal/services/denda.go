package services

import (
	"time"

	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// HitungDenda computes the late fee for a charge paid (or evaluated) at
// paidAt. Zero when paid on or before the due date; otherwise days-late ×
// perHari, capped at maksimal when a cap is set.
//
// Days late are rounded up, so paying within the first day past due
// already accrues one day of denda.
func HitungDenda(perHari, maksimal decimal.Decimal, jatuhTempo, paidAt time.Time) decimal.Decimal {
	if !paidAt.After(jatuhTempo) {
		return decimal.Zero
	}
	if perHari.Sign() <= 0 {
		return decimal.Zero
	}

	hari := int64(paidAt.Sub(jatuhTempo).Hours() / 24)
	if paidAt.Sub(jatuhTempo)%(24*time.Hour) > 0 {
		hari++
	}
	denda := perHari.Mul(decimal.NewFromInt(hari))

	if maksimal.Sign() > 0 && denda.GreaterThan(maksimal) {
		return maksimal
	}
	return denda
}
