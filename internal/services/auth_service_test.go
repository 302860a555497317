package services

import (
	"context"
	"testing"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/config"
	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockAuthPengurusRepo struct {
	repository.PengurusRepository
	mockFindByID    func(ctx context.Context, id uint) (*models.Pengurus, error)
	mockFindByEmail func(ctx context.Context, email string) (*models.Pengurus, error)
	mockCreate      func(ctx context.Context, pengurus *models.Pengurus) error
	mockUpdate      func(ctx context.Context, pengurus *models.Pengurus) error
}

func (m *mockAuthPengurusRepo) FindByID(ctx context.Context, id uint) (*models.Pengurus, error) {
	if m.mockFindByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByID(ctx, id)
}

func (m *mockAuthPengurusRepo) FindByEmail(ctx context.Context, email string) (*models.Pengurus, error) {
	if m.mockFindByEmail == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.mockFindByEmail(ctx, email)
}

func (m *mockAuthPengurusRepo) Create(ctx context.Context, pengurus *models.Pengurus) error {
	return m.mockCreate(ctx, pengurus)
}

func (m *mockAuthPengurusRepo) Update(ctx context.Context, pengurus *models.Pengurus) error {
	if m.mockUpdate == nil {
		return nil
	}
	return m.mockUpdate(ctx, pengurus)
}

type mockRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	mockCreate           func(ctx context.Context, token *models.RefreshToken) error
	mockFindByToken      func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockDelete           func(ctx context.Context, token string) error
	mockDeleteByPengurus func(ctx context.Context, pengurusID uint) error
}

func (m *mockRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	if m.mockCreate == nil {
		return nil
	}
	return m.mockCreate(ctx, token)
}

func (m *mockRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	if m.mockDelete == nil {
		return nil
	}
	return m.mockDelete(ctx, token)
}

func (m *mockRefreshTokenRepo) DeleteByPengurus(ctx context.Context, pengurusID uint) error {
	if m.mockDeleteByPengurus == nil {
		return nil
	}
	return m.mockDeleteByPengurus(ctx, pengurusID)
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
	}
}

func aktifPengurus(t *testing.T, password string) *models.Pengurus {
	t.Helper()
	hashed, err := HashPassword(password)
	require.NoError(t, err)
	return &models.Pengurus{
		ID:                1,
		KomplekID:         7,
		Email:             "bendahara@komplek.id",
		EncryptedPassword: hashed,
		Nama:              "Sari",
		Role:              models.RoleBendahara,
		Status:            models.PengurusStatusAktif,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("rahasia123")
	require.NoError(t, err)
	assert.NotEqual(t, "rahasia123", hashed)

	assert.True(t, VerifyPassword("rahasia123", hashed))
	assert.False(t, VerifyPassword("salah", hashed))
}

func TestLogin_Success(t *testing.T) {
	pengurus := aktifPengurus(t, "rahasia123")
	pengurusRepo := &mockAuthPengurusRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.Pengurus, error) {
			return pengurus, nil
		},
	}
	svc := NewAuthService(pengurusRepo, &mockRefreshTokenRepo{}, authTestConfig())

	result, err := svc.Login(context.Background(), pengurus.Email, "rahasia123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, pengurus.Email, result.Pengurus.Email)
	assert.NotNil(t, pengurus.LastLoginAt)

	// Claims carry the komplek and role for the middleware.
	parsed, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["komplek_id"])
	assert.Equal(t, models.RoleBendahara, claims["role"])
}

func TestLogin_WrongCredentialsShareOneMessage(t *testing.T) {
	pengurus := aktifPengurus(t, "rahasia123")
	pengurusRepo := &mockAuthPengurusRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.Pengurus, error) {
			if email == pengurus.Email {
				return pengurus, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewAuthService(pengurusRepo, &mockRefreshTokenRepo{}, authTestConfig())

	_, errEmail := svc.Login(context.Background(), "tidakada@komplek.id", "rahasia123")
	_, errPassword := svc.Login(context.Background(), pengurus.Email, "salah")
	require.Error(t, errEmail)
	require.Error(t, errPassword)
	assert.Equal(t, errEmail.Error(), errPassword.Error())
}

func TestLogin_NonaktifAccountRejected(t *testing.T) {
	pengurus := aktifPengurus(t, "rahasia123")
	pengurus.Status = models.PengurusStatusNonaktif
	pengurusRepo := &mockAuthPengurusRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.Pengurus, error) {
			return pengurus, nil
		},
	}
	svc := NewAuthService(pengurusRepo, &mockRefreshTokenRepo{}, authTestConfig())

	_, err := svc.Login(context.Background(), pengurus.Email, "rahasia123")
	assert.EqualError(t, err, "akun tidak aktif")
}

func TestRefreshToken_RotatesToken(t *testing.T) {
	pengurus := aktifPengurus(t, "rahasia123")
	expires := time.Now().Add(time.Hour)

	var deleted []string
	rtRepo := &mockRefreshTokenRepo{
		mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{PengurusID: pengurus.ID, Token: token, ExpiresAt: &expires}, nil
		},
		mockDelete: func(ctx context.Context, token string) error {
			deleted = append(deleted, token)
			return nil
		},
	}
	pengurusRepo := &mockAuthPengurusRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Pengurus, error) {
			return pengurus, nil
		},
	}
	svc := NewAuthService(pengurusRepo, rtRepo, authTestConfig())

	result, err := svc.RefreshToken(context.Background(), "token-lama")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "token-lama", result.RefreshToken)
	assert.Equal(t, []string{"token-lama"}, deleted)
}

func TestRefreshToken_ExpiredTokenDeleted(t *testing.T) {
	expired := time.Now().Add(-time.Hour)

	var deleted []string
	rtRepo := &mockRefreshTokenRepo{
		mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{PengurusID: 1, Token: token, ExpiresAt: &expired}, nil
		},
		mockDelete: func(ctx context.Context, token string) error {
			deleted = append(deleted, token)
			return nil
		},
	}
	svc := NewAuthService(&mockAuthPengurusRepo{}, rtRepo, authTestConfig())

	_, err := svc.RefreshToken(context.Background(), "token-basi")
	assert.EqualError(t, err, "token kedaluwarsa")
	assert.Equal(t, []string{"token-basi"}, deleted)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	pengurus := aktifPengurus(t, "rahasia123")
	pengurusRepo := &mockAuthPengurusRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.Pengurus, error) {
			return pengurus, nil
		},
		mockCreate: func(ctx context.Context, p *models.Pengurus) error {
			t.Fatal("duplicate email must not reach the repository")
			return nil
		},
	}
	svc := NewAuthService(pengurusRepo, &mockRefreshTokenRepo{}, authTestConfig())

	err := svc.Register(context.Background(), &models.Pengurus{Email: pengurus.Email}, "rahasia123")
	assert.EqualError(t, err, "email sudah terdaftar")
}

func TestRegister_HashesPassword(t *testing.T) {
	var created *models.Pengurus
	pengurusRepo := &mockAuthPengurusRepo{
		mockCreate: func(ctx context.Context, p *models.Pengurus) error {
			created = p
			return nil
		},
	}
	svc := NewAuthService(pengurusRepo, &mockRefreshTokenRepo{}, authTestConfig())

	err := svc.Register(context.Background(), &models.Pengurus{Email: "baru@komplek.id"}, "rahasia123")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, VerifyPassword("rahasia123", created.EncryptedPassword))
}

func TestChangePassword(t *testing.T) {
	pengurus := aktifPengurus(t, "lama123")

	var revoked []uint
	pengurusRepo := &mockAuthPengurusRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Pengurus, error) {
			return pengurus, nil
		},
	}
	rtRepo := &mockRefreshTokenRepo{
		mockDeleteByPengurus: func(ctx context.Context, pengurusID uint) error {
			revoked = append(revoked, pengurusID)
			return nil
		},
	}
	svc := NewAuthService(pengurusRepo, rtRepo, authTestConfig())

	err := svc.ChangePassword(context.Background(), 1, "salah", "baru123")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	assert.Empty(t, revoked)

	err = svc.ChangePassword(context.Background(), 1, "lama123", "baru123")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("baru123", pengurus.EncryptedPassword))
	assert.Equal(t, []uint{1}, revoked)
}
