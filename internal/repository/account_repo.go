package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/models"
)

// AccountRepository provides access to login accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id uint) (models.Account, error)
	GetByUsername(ctx context.Context, username string) (models.Account, error)
	// CreateWithTeacher persists the account together with its teacher profile
	// and default profile in a single transaction.
	CreateWithTeacher(ctx context.Context, account *models.Account, teacher *models.TeacherProfile, profile *models.Profile) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository constructs a GORM-backed account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (r *accountRepository) CreateWithTeacher(ctx context.Context, account *models.Account, teacher *models.TeacherProfile, profile *models.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		teacher.AccountID = account.ID
		if err := tx.Create(teacher).Error; err != nil {
			return err
		}
		profile.AccountID = account.ID
		profile.ApplyDefaults()
		return tx.Create(profile).Error
	})
}

// TokenRepository manages the opaque bearer tokens issued at login.
type TokenRepository interface {
	// GetByKey resolves a token key and loads the owning account.
	GetByKey(ctx context.Context, key string) (models.AuthToken, error)
	// GetOrCreate returns the account's existing token, or stores one with the
	// supplied key when the account has never logged in.
	GetOrCreate(ctx context.Context, accountID uint, key string) (models.AuthToken, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository constructs a GORM-backed token repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetByKey(ctx context.Context, key string) (models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Preload("Account").Where("key = ?", key).First(&token).Error; err != nil {
		return models.AuthToken{}, err
	}
	return token, nil
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, accountID uint, key string) (models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&token).Error
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AuthToken{}, err
	}

	token = models.AuthToken{Key: key, AccountID: accountID}
	if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
		return models.AuthToken{}, err
	}
	return token, nil
}
