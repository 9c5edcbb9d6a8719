package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/scope"
)

// TeacherRepository provides scoped access to teacher profiles.
type TeacherRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.TeacherProfile, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.TeacherProfile, error)
	GetByAccount(ctx context.Context, accountID uint) (models.TeacherProfile, error)
	// CreateWithProfile stores the teacher profile and its account profile
	// atomically, mirroring the registration path.
	CreateWithProfile(ctx context.Context, teacher *models.TeacherProfile, profile *models.Profile) error
	Save(ctx context.Context, teacher *models.TeacherProfile) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a GORM-backed teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) List(ctx context.Context, p scope.Principal) ([]models.TeacherProfile, error) {
	var teachers []models.TeacherProfile
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Teachers)).
		Preload("Account").
		Find(&teachers).Error
	if err != nil {
		return nil, err
	}
	return teachers, nil
}

func (r *teacherRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.TeacherProfile, error) {
	var teacher models.TeacherProfile
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Teachers)).
		Preload("Account").
		First(&teacher, id).Error
	if err != nil {
		return models.TeacherProfile{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) GetByAccount(ctx context.Context, accountID uint) (models.TeacherProfile, error) {
	var teacher models.TeacherProfile
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&teacher).Error
	if err != nil {
		return models.TeacherProfile{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) CreateWithProfile(ctx context.Context, teacher *models.TeacherProfile, profile *models.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(teacher).Error; err != nil {
			return err
		}
		profile.AccountID = teacher.AccountID
		profile.ApplyDefaults()
		return tx.Create(profile).Error
	})
}

func (r *teacherRepository) Save(ctx context.Context, teacher *models.TeacherProfile) error {
	return r.db.WithContext(ctx).Save(teacher).Error
}

func (r *teacherRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Teachers)).
		Delete(&models.TeacherProfile{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ProfileRepository provides scoped access to account profiles.
type ProfileRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.Profile, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs a GORM-backed profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) List(ctx context.Context, p scope.Principal) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Profiles)).
		Preload("Account").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Profiles)).
		Preload("Account").
		First(&profile, id).Error
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Profiles)).
		Delete(&models.Profile{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
