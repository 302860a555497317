package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHitungDenda(t *testing.T) {
	jatuhTempo := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	perHari := decimal.NewFromInt(2000)
	maksimal := decimal.NewFromInt(10000)

	t.Run("on time is free", func(t *testing.T) {
		denda := HitungDenda(perHari, maksimal, jatuhTempo, jatuhTempo)
		assert.True(t, denda.IsZero())

		denda = HitungDenda(perHari, maksimal, jatuhTempo, jatuhTempo.AddDate(0, 0, -3))
		assert.True(t, denda.IsZero())
	})

	t.Run("partial day counts as a full day", func(t *testing.T) {
		denda := HitungDenda(perHari, maksimal, jatuhTempo, jatuhTempo.Add(6*time.Hour))
		assert.True(t, denda.Equal(decimal.NewFromInt(2000)), "got %s", denda)
	})

	t.Run("accrues per day", func(t *testing.T) {
		denda := HitungDenda(perHari, maksimal, jatuhTempo, jatuhTempo.AddDate(0, 0, 3))
		assert.True(t, denda.Equal(decimal.NewFromInt(6000)), "got %s", denda)
	})

	t.Run("capped at maksimal", func(t *testing.T) {
		denda := HitungDenda(perHari, maksimal, jatuhTempo, jatuhTempo.AddDate(0, 0, 30))
		assert.True(t, denda.Equal(maksimal), "got %s", denda)
	})

	t.Run("zero maksimal means uncapped", func(t *testing.T) {
		denda := HitungDenda(perHari, decimal.Zero, jatuhTempo, jatuhTempo.AddDate(0, 0, 30))
		assert.True(t, denda.Equal(decimal.NewFromInt(60000)), "got %s", denda)
	})

	t.Run("no rate no fee", func(t *testing.T) {
		denda := HitungDenda(decimal.Zero, maksimal, jatuhTempo, jatuhTempo.AddDate(0, 0, 30))
		assert.True(t, denda.IsZero())
	})
}
