package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/config"
	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles pengurus authentication
type AuthService struct {
	pengurusRepo     repository.PengurusRepository
	refreshTokenRepo repository.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(pengurusRepo repository.PengurusRepository, rtRepo repository.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		pengurusRepo:     pengurusRepo,
		refreshTokenRepo: rtRepo,
		cfg:              cfg,
	}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token        string                  `json:"token"`
	RefreshToken string                  `json:"refresh_token"`
	Pengurus     models.PengurusResponse `json:"pengurus"`
}

// Login authenticates a pengurus and returns tokens. Wrong email and wrong
// password produce the same message on purpose.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	pengurus, err := s.pengurusRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.New("email atau kata sandi salah")
	}

	if !pengurus.IsAktif() {
		return nil, errors.New("akun tidak aktif")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(pengurus.EncryptedPassword), []byte(password)); err != nil {
		return nil, errors.New("email atau kata sandi salah")
	}

	token, err := s.generateJWT(pengurus)
	if err != nil {
		return nil, errors.New("gagal membuat token")
	}

	refreshToken, err := s.generateRefreshToken(ctx, pengurus.ID)
	if err != nil {
		return nil, errors.New("gagal membuat refresh token")
	}

	now := time.Now()
	pengurus.LastLoginAt = &now
	_ = s.pengurusRepo.Update(ctx, pengurus)

	return &LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		Pengurus:     pengurus.ToResponse(),
	}, nil
}

// RefreshToken rotates a refresh token and returns a fresh token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	rt, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("token tidak valid")
	}

	if rt.IsExpired() {
		s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, errors.New("token kedaluwarsa")
	}

	pengurus, err := s.pengurusRepo.FindByID(ctx, rt.PengurusID)
	if err != nil {
		return nil, errors.New("akun tidak ditemukan")
	}

	if !pengurus.IsAktif() {
		return nil, errors.New("akun tidak aktif")
	}

	s.refreshTokenRepo.Delete(ctx, refreshToken)

	token, err := s.generateJWT(pengurus)
	if err != nil {
		return nil, errors.New("gagal membuat token")
	}

	newRefreshToken, err := s.generateRefreshToken(ctx, pengurus.ID)
	if err != nil {
		return nil, errors.New("gagal membuat refresh token")
	}

	return &LoginResult{
		Token:        token,
		RefreshToken: newRefreshToken,
		Pengurus:     pengurus.ToResponse(),
	}, nil
}

// Logout invalidates a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokenRepo.Delete(ctx, refreshToken)
}

// Register creates a new pengurus account
func (s *AuthService) Register(ctx context.Context, pengurus *models.Pengurus, password string) error {
	if _, err := s.pengurusRepo.FindByEmail(ctx, pengurus.Email); err == nil {
		return errors.New("email sudah terdaftar")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	pengurus.EncryptedPassword = hashed
	return s.pengurusRepo.Create(ctx, pengurus)
}

// ChangePassword updates a pengurus password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, pengurusID uint, currentPassword, newPassword string) error {
	pengurus, err := s.pengurusRepo.FindByID(ctx, pengurusID)
	if err != nil {
		return ErrNotFound
	}
	if !VerifyPassword(currentPassword, pengurus.EncryptedPassword) {
		return ErrInvalidPassword
	}
	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	pengurus.EncryptedPassword = hashed
	if err := s.pengurusRepo.Update(ctx, pengurus); err != nil {
		return err
	}
	// Force re-login everywhere.
	return s.refreshTokenRepo.DeleteByPengurus(ctx, pengurusID)
}

// CleanupExpiredTokens deletes expired refresh tokens; run from the scheduler
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) error {
	return s.refreshTokenRepo.DeleteExpired(ctx)
}

// generateJWT creates a new JWT token for a pengurus
func (s *AuthService) generateJWT(pengurus *models.Pengurus) (string, error) {
	claims := jwt.MapClaims{
		"pengurus_id": pengurus.ID,
		"komplek_id":  pengurus.KomplekID,
		"email":       pengurus.Email,
		"role":        pengurus.Role,
		"exp":         time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":         time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// generateRefreshToken creates and stores a new refresh token
func (s *AuthService) generateRefreshToken(ctx context.Context, pengurusID uint) (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(bytes)

	expiresAt := time.Now().Add(30 * 24 * time.Hour)

	rt := &models.RefreshToken{
		PengurusID: pengurusID,
		Token:      token,
		ExpiresAt:  &expiresAt,
	}

	if err := s.refreshTokenRepo.Create(ctx, rt); err != nil {
		return "", err
	}

	return token, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword compares a password with a hash
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
