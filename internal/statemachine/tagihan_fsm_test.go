package statemachine

import (
	"context"
	"testing"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBayar_OnTime(t *testing.T) {
	tagihan := &models.Tagihan{Status: models.TagihanStatusBelumLunas}
	tfsm := NewTagihanFSM(tagihan)

	require.NoError(t, tfsm.Bayar(context.Background(), false))
	assert.Equal(t, models.TagihanStatusLunas, tagihan.Status)
}

func TestBayar_Late(t *testing.T) {
	tagihan := &models.Tagihan{Status: models.TagihanStatusBelumLunas}
	tfsm := NewTagihanFSM(tagihan)

	require.NoError(t, tfsm.Bayar(context.Background(), true))
	assert.Equal(t, models.TagihanStatusTerlambat, tagihan.Status)
}

func TestBayar_RejectedWhenAlreadyPaid(t *testing.T) {
	for _, status := range []string{
		models.TagihanStatusLunas,
		models.TagihanStatusTerlambat,
		models.TagihanStatusDibatalkan,
	} {
		tagihan := &models.Tagihan{Status: status}
		tfsm := NewTagihanFSM(tagihan)

		err := tfsm.Bayar(context.Background(), false)
		assert.Error(t, err, "status %s", status)
		assert.Equal(t, status, tagihan.Status, "status must not change on a rejected event")
	}
}

func TestBatalkanPembayaran(t *testing.T) {
	for _, status := range []string{models.TagihanStatusLunas, models.TagihanStatusTerlambat} {
		tagihan := &models.Tagihan{Status: status}
		tfsm := NewTagihanFSM(tagihan)

		require.NoError(t, tfsm.BatalkanPembayaran(context.Background()))
		assert.Equal(t, models.TagihanStatusBelumLunas, tagihan.Status)
	}

	tagihan := &models.Tagihan{Status: models.TagihanStatusBelumLunas}
	tfsm := NewTagihanFSM(tagihan)
	assert.Error(t, tfsm.BatalkanPembayaran(context.Background()))
}

func TestBatal_FromAnyActiveStatus(t *testing.T) {
	for _, status := range []string{
		models.TagihanStatusBelumLunas,
		models.TagihanStatusLunas,
		models.TagihanStatusTerlambat,
	} {
		tagihan := &models.Tagihan{Status: status}
		tfsm := NewTagihanFSM(tagihan)

		require.NoError(t, tfsm.Batal(context.Background()))
		assert.Equal(t, models.TagihanStatusDibatalkan, tagihan.Status)
	}

	tagihan := &models.Tagihan{Status: models.TagihanStatusDibatalkan}
	tfsm := NewTagihanFSM(tagihan)
	assert.Error(t, tfsm.Batal(context.Background()))
}

func TestCan(t *testing.T) {
	tfsm := NewTagihanFSM(&models.Tagihan{Status: models.TagihanStatusBelumLunas})
	assert.True(t, tfsm.Can("bayar"))
	assert.True(t, tfsm.Can("batal"))
	assert.False(t, tfsm.Can("batalkan_pembayaran"))
}
