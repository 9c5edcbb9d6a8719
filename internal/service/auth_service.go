package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for unknown users and wrong passwords
	// alike, so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrLoginThrottled indicates too many recent attempts for the username.
	ErrLoginThrottled = errors.New("too many login attempts, try again later")
)

// Login throttle defaults, applied when the caller passes zero values.
const (
	defaultLoginAttempts = 10
	defaultLoginWindow   = 5 * time.Minute
)

// AuthService covers registration and token-based login.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.TeacherResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	accounts     repository.AccountRepository
	tokens       repository.TokenRepository
	throttle     *redis.Client
	validator    *validator.Validate
	logger       zerolog.Logger
	maxAttempts  int
	attemptsTTL  time.Duration
	hashPassword func(password string) ([]byte, error)
}

// NewAuthService builds the auth service. The redis client backs the login
// throttle and may be nil to disable throttling; non-positive limits fall back
// to the defaults.
func NewAuthService(accounts repository.AccountRepository, tokens repository.TokenRepository, throttle *redis.Client, maxAttempts int, window time.Duration, validate *validator.Validate, logger zerolog.Logger) AuthService {
	if maxAttempts <= 0 {
		maxAttempts = defaultLoginAttempts
	}
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &authService{
		accounts:    accounts,
		tokens:      tokens,
		throttle:    throttle,
		validator:   validate,
		logger:      logger.With().Str("component", "auth_service").Logger(),
		maxAttempts: maxAttempts,
		attemptsTTL: window,
		hashPassword: func(password string) ([]byte, error) {
			return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		},
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	hash, err := s.hashPassword(payload.Password)
	if err != nil {
		return dto.TeacherResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: string(hash),
	}
	teacher := models.TeacherProfile{
		Email:       payload.Email,
		SchoolName:  payload.SchoolName,
		MobilePhone: payload.MobilePhone,
	}
	profile := models.Profile{}

	if err := s.accounts.CreateWithTeacher(ctx, &account, &teacher, &profile); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.logger.Info().Uint("account_id", account.ID).Str("username", account.Username).Msg("account registered")

	teacher.Account = account
	return dto.NewTeacherResponse(teacher), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	if err := s.checkThrottle(ctx, payload.Username); err != nil {
		return dto.LoginResponse{}, err
	}

	account, err := s.accounts.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordAttempt(ctx, payload.Username)
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(payload.Password)) != nil {
		s.recordAttempt(ctx, payload.Username)
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	key, err := newTokenKey()
	if err != nil {
		return dto.LoginResponse{}, err
	}

	// GetOrCreate keeps issuance idempotent: repeated logins return the same key.
	token, err := s.tokens.GetOrCreate(ctx, account.ID, key)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.clearThrottle(ctx, payload.Username)
	s.logger.Info().Uint("account_id", account.ID).Msg("login succeeded")

	return dto.LoginResponse{
		Token:    token.Key,
		UserID:   account.ID,
		Username: account.Username,
	}, nil
}

func (s *authService) checkThrottle(ctx context.Context, username string) error {
	if s.throttle == nil {
		return nil
	}
	count, err := s.throttle.Get(ctx, throttleKey(username)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn().Err(err).Msg("login throttle unavailable")
		return nil
	}
	if count >= s.maxAttempts {
		return ErrLoginThrottled
	}
	return nil
}

func (s *authService) recordAttempt(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	key := throttleKey(username)
	count, err := s.throttle.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to record login attempt")
		return
	}
	if count == 1 {
		s.throttle.Expire(ctx, key, s.attemptsTTL)
	}
}

func (s *authService) clearThrottle(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	s.throttle.Del(ctx, throttleKey(username))
}

func throttleKey(username string) string {
	return "login_attempts:" + username
}

// newTokenKey mints a 40-hex-character opaque token key.
func newTokenKey() (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token key: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
