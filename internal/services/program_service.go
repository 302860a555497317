package services

import (
	"context"
	"errors"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"gorm.io/gorm"
)

// ProgramService manages community programs and their funding progress
type ProgramService struct {
	repos *repository.Repositories
}

func NewProgramService(repos *repository.Repositories) *ProgramService {
	return &ProgramService{repos: repos}
}

func (s *ProgramService) FindByID(ctx context.Context, id uint) (*models.Program, error) {
	program, err := s.repos.Program.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return program, nil
}

func (s *ProgramService) List(ctx context.Context, query *repository.ListQuery) ([]models.Program, int64, error) {
	return s.repos.Program.List(ctx, query)
}

// Create starts a program. A linked iuran must exist, belong to the same
// komplek and be a sumbangan, so paid tagihan feed DanaTerkumpul.
func (s *ProgramService) Create(ctx context.Context, program *models.Program) error {
	if program.Nama == "" {
		return ErrValidation
	}
	if program.IuranID != nil {
		if err := s.validateIuran(ctx, program.KomplekID, *program.IuranID); err != nil {
			return err
		}
	}
	if program.Status == "" {
		program.Status = models.ProgramStatusBerjalan
	}
	if program.Mulai == nil {
		now := time.Now()
		program.Mulai = &now
	}
	return s.repos.Program.Create(ctx, program)
}

func (s *ProgramService) Update(ctx context.Context, program *models.Program) error {
	if program.Nama == "" {
		return ErrValidation
	}
	if program.IuranID != nil {
		if err := s.validateIuran(ctx, program.KomplekID, *program.IuranID); err != nil {
			return err
		}
	}
	return s.repos.Program.Update(ctx, program)
}

// Selesaikan closes a program
func (s *ProgramService) Selesaikan(ctx context.Context, id uint) (*models.Program, error) {
	program, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	program.Status = models.ProgramStatusSelesai
	now := time.Now()
	program.Selesai = &now
	if err := s.repos.Program.Update(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *ProgramService) Delete(ctx context.Context, id uint) error {
	program, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if program.DanaTerkumpul.Sign() > 0 {
		return ErrInvalidState
	}
	return s.repos.Program.Delete(ctx, id)
}

func (s *ProgramService) validateIuran(ctx context.Context, komplekID, iuranID uint) error {
	iuran, err := s.repos.Iuran.FindByID(ctx, iuranID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if iuran.KomplekID != komplekID || iuran.Tipe != models.IuranTipeSumbangan {
		return ErrValidation
	}
	return nil
}
