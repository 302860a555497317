package models

import (
	"fmt"
	"time"
)

// Periode is a billing period in "YYYY-MM" form.
type Periode struct {
	Tahun int `json:"tahun"`
	Bulan int `json:"bulan"`
}

// ParsePeriode parses "YYYY-MM". The second return value is false for
// anything that is not a real year-month.
func ParsePeriode(s string) (Periode, bool) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Periode{}, false
	}
	return Periode{Tahun: t.Year(), Bulan: int(t.Month())}, true
}

// PeriodeFrom returns the billing period containing t.
func PeriodeFrom(t time.Time) Periode {
	return Periode{Tahun: t.Year(), Bulan: int(t.Month())}
}

// String formats the period as "YYYY-MM"
func (p Periode) String() string {
	return fmt.Sprintf("%04d-%02d", p.Tahun, p.Bulan)
}

// IsZero returns true for the zero period
func (p Periode) IsZero() bool {
	return p.Tahun == 0 && p.Bulan == 0
}
