package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/oauth"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	MaxPasswordLength = 72

	resetTokenBytes = 20
)

// ForgotPasswordMessage is returned whether or not the email has an account.
const ForgotPasswordMessage = "If an account exists for that email, a reset link has been sent"

// IdentityVerifier checks an OIDC identity token for a named provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, provider, rawToken string) (*oauth.Identity, error)
}

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	verifier IdentityVerifier
	mail     mailer.Mailer
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, cfg *config.Config, verifier IdentityVerifier, mail mailer.Mailer) *AuthService {
	if mail == nil {
		mail = mailer.LogMailer{}
	}
	return &AuthService{db: db, cfg: cfg, verifier: verifier, mail: mail, now: time.Now}
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// dummyPasswordHash is compared against when no account matches so a miss
// costs as much as a wrong password.
func dummyPasswordHash() []byte {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	user := models.User{
		Email:        email,
		Name:         name,
		Password:     string(hash),
		AuthProvider: models.ProviderCredentials,
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return provisionAccount(tx, &user)
	}); err != nil {
		// Lost a race with a concurrent signup for the same address.
		if isConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	slog.Info("user signed up", "user_id", user.ID.String(), "provider", user.AuthProvider)
	return s.issueTokens(ctx, &user)
}

// provisionAccount creates the user together with default settings and the
// starter categories.
func provisionAccount(tx *gorm.DB, user *models.User) error {
	if err := tx.Create(user).Error; err != nil {
		return err
	}
	settings := models.DefaultSettings(user.ID)
	if err := tx.Create(&settings).Error; err != nil {
		return fmt.Errorf("create settings: %w", err)
	}
	categories := models.DefaultCategories(user.ID)
	if err := tx.Create(&categories).Error; err != nil {
		return fmt.Errorf("create default categories: %w", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err != nil || !user.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, &user)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued. A token can be redeemed once.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	db := s.db.WithContext(ctx)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", hashToken(req.RefreshToken), false).First(&stored).Error; err != nil {
		return nil, notFound(err, ErrInvalidRefresh)
	}

	res := db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", stored.ID, false).
		Update("revoked", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || s.now().After(stored.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}

	var user models.User
	if err := db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, notFound(err, ErrInvalidRefresh)
	}

	return s.issueTokens(ctx, &user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(req.RefreshToken)).
		Update("revoked", true).Error
}

// OAuth signs in with a provider identity token. The account is matched by
// provider subject first, then by verified email; otherwise a new account is
// provisioned.
func (s *AuthService) OAuth(ctx context.Context, provider string, req *dto.OAuthRequest) (*dto.AuthResponse, error) {
	if s.verifier == nil {
		return nil, ErrProviderDisabled
	}
	identity, err := s.verifier.Verify(ctx, provider, req.IDToken)
	switch {
	case errors.Is(err, oauth.ErrUnknownProvider):
		return nil, ErrUnknownProvider
	case errors.Is(err, oauth.ErrNotConfigured):
		return nil, ErrProviderDisabled
	case err != nil:
		slog.Warn("identity token rejected", "provider", provider, "error", err)
		return nil, ErrIdentityToken
	}

	email := identity.Email
	if email == "" && provider == oauth.ProviderApple {
		email = identity.Subject + "@privaterelay.appleid.com"
	}
	if email == "" {
		return nil, ErrIdentityNoEmail
	}

	db := s.db.WithContext(ctx)
	var user models.User
	err = db.Where("auth_provider = ? AND provider_subject = ?", provider, identity.Subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Where("email = ?", email).First(&user).Error
		if err == nil {
			if !identity.EmailVerified {
				return nil, ErrEmailTaken
			}
			if err := s.linkProvider(ctx, &user, provider, identity); err != nil {
				return nil, err
			}
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.createOAuthUser(ctx, provider, email, identity, req)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.issueTokens(ctx, &user)
}

func (s *AuthService) linkProvider(ctx context.Context, user *models.User, provider string, identity *oauth.Identity) error {
	updates := map[string]any{"provider_subject": identity.Subject}
	if !user.HasPassword() {
		updates["auth_provider"] = provider
	}
	if user.EmailVerifiedAt == nil {
		now := s.now().UTC()
		updates["email_verified_at"] = now
		user.EmailVerifiedAt = &now
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return err
	}
	subject := identity.Subject
	user.ProviderSubject = &subject
	return nil
}

func (s *AuthService) createOAuthUser(ctx context.Context, provider, email string, identity *oauth.Identity, req *dto.OAuthRequest) (models.User, error) {
	name := firstNonEmpty(req.Name, identity.Name, strings.Split(email, "@")[0])
	subject := identity.Subject
	user := models.User{
		Email:           email,
		Name:            name,
		Image:           firstNonEmpty(req.Image, identity.Picture),
		AuthProvider:    provider,
		ProviderSubject: &subject,
	}
	if identity.EmailVerified {
		now := s.now().UTC()
		user.EmailVerifiedAt = &now
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return provisionAccount(tx, &user)
	}); err != nil {
		if isConflict(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	slog.Info("user signed up", "user_id", user.ID.String(), "provider", provider)
	return user, nil
}

// ForgotPassword stores a fresh reset token and mails the link when the email
// has an account. The caller always answers with ForgotPasswordMessage.
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	email := normalizeEmail(req.Email)
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := randomHex(resetTokenBytes)
	if err != nil {
		return err
	}
	record := models.VerificationToken{
		Identifier: email,
		Token:      token,
		Expires:    s.now().Add(s.cfg.ResetTokenTTL).UTC(),
	}
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("identifier = ?", email).Delete(&models.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	}); err != nil {
		return err
	}

	msg := mailer.Message{
		To:       email,
		Template: mailer.TemplatePasswordReset,
		Data: map[string]string{
			"name": user.Name,
			"link": s.cfg.ResetLink(token),
		},
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		slog.Error("failed to queue password reset mail", "action", "forgot_password", "user_id", user.ID.String(), "error", err)
	}
	return nil
}

// ResetPassword redeems a reset token. Lookup failures are reported before
// the new password is checked; an expired token is deleted on sight.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	db := s.db.WithContext(ctx)

	var record models.VerificationToken
	if err := db.Where("token = ?", req.Token).First(&record).Error; err != nil {
		return notFound(err, ErrResetTokenInvalid)
	}

	if record.Expired(s.now()) {
		if err := db.Delete(&record).Error; err != nil {
			return err
		}
		return ErrResetTokenExpired
	}

	if n := len(req.Password); n < MinPasswordLength || n > MaxPasswordLength {
		return apperr.Validation([]apperr.FieldError{{
			Field:   "password",
			Message: fmt.Sprintf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength),
		}})
	}

	var user models.User
	if err := db.Where("email = ?", record.Identifier).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = db.Delete(&record).Error
			return ErrResetTokenInvalid
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", record.ID).Delete(&models.VerificationToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrResetTokenInvalid
		}
		if err := tx.Model(&user).Update("password", string(hash)).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked = ?", user.ID, false).
			Update("revoked", true).Error
	})
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.createRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWTAccessExpiry.Seconds()),
		User:         dto.NewUserResponse(user),
	}, nil
}

func (s *AuthService) signAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) createRefreshToken(ctx context.Context, user *models.User) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: s.now().Add(s.cfg.JWTRefreshExpiry).UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return token, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
