package statemachine

import (
	"context"
	"fmt"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/looplab/fsm"
)

// TagihanFSM wraps a tagihan with its status state machine
type TagihanFSM struct {
	tagihan *models.Tagihan
	fsm     *fsm.FSM
}

// NewTagihanFSM creates a new tagihan state machine
func NewTagihanFSM(tagihan *models.Tagihan) *TagihanFSM {
	tfsm := &TagihanFSM{
		tagihan: tagihan,
	}

	tfsm.fsm = fsm.NewFSM(
		tagihan.Status,
		fsm.Events{
			// belum_lunas → lunas (paid on time)
			{Name: "bayar", Src: []string{models.TagihanStatusBelumLunas}, Dst: models.TagihanStatusLunas},

			// belum_lunas → terlambat (paid with accrued denda)
			{Name: "bayar_terlambat", Src: []string{models.TagihanStatusBelumLunas}, Dst: models.TagihanStatusTerlambat},

			// lunas/terlambat → belum_lunas (payment reverted)
			{Name: "batalkan_pembayaran", Src: []string{models.TagihanStatusLunas, models.TagihanStatusTerlambat}, Dst: models.TagihanStatusBelumLunas},

			// any active status → dibatalkan (administrative override)
			{Name: "batal", Src: []string{models.TagihanStatusBelumLunas, models.TagihanStatusLunas, models.TagihanStatusTerlambat}, Dst: models.TagihanStatusDibatalkan},
		},
		fsm.Callbacks{},
	)

	return tfsm
}

// Bayar transitions the tagihan to lunas, or terlambat when late is true
func (t *TagihanFSM) Bayar(ctx context.Context, late bool) error {
	if !t.tagihan.MayBayar() {
		return fmt.Errorf("tagihan tidak dapat dibayar pada status: %s", t.tagihan.Status)
	}

	event := "bayar"
	if late {
		event = "bayar_terlambat"
	}
	if err := t.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("gagal membayar tagihan: %w", err)
	}

	t.tagihan.Status = t.fsm.Current()
	return nil
}

// BatalkanPembayaran reverts a paid tagihan back to belum_lunas
func (t *TagihanFSM) BatalkanPembayaran(ctx context.Context) error {
	if !t.tagihan.IsLunas() {
		return fmt.Errorf("pembayaran tidak dapat dibatalkan pada status: %s", t.tagihan.Status)
	}

	if err := t.fsm.Event(ctx, "batalkan_pembayaran"); err != nil {
		return fmt.Errorf("gagal membatalkan pembayaran: %w", err)
	}

	t.tagihan.Status = t.fsm.Current()
	return nil
}

// Batal cancels the tagihan administratively
func (t *TagihanFSM) Batal(ctx context.Context) error {
	if !t.tagihan.MayBatal() {
		return fmt.Errorf("tagihan tidak dapat dibatalkan pada status: %s", t.tagihan.Status)
	}

	if err := t.fsm.Event(ctx, "batal"); err != nil {
		return fmt.Errorf("gagal membatalkan tagihan: %w", err)
	}

	t.tagihan.Status = t.fsm.Current()
	return nil
}

// Current returns the current state
func (t *TagihanFSM) Current() string {
	return t.fsm.Current()
}

// Can checks if a transition is possible
func (t *TagihanFSM) Can(event string) bool {
	return t.fsm.Can(event)
}
