package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/repository"
	"github.com/shulehub/shule-api/internal/scope"
)

var (
	// ErrProfileNotFound indicates the profile is missing or out of scope.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrAvatarTooLarge indicates the uploaded avatar exceeded the size cap.
	ErrAvatarTooLarge = errors.New("avatar exceeds maximum allowed size")
	// ErrAvatarNotImage indicates the uploaded file is not an image.
	ErrAvatarNotImage = errors.New("avatar must be an image")
)

// AvatarStorage abstracts uploading avatar data and returning a URL.
type AvatarStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ProfileService exposes profile use cases, including avatar uploads.
type ProfileService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.ProfileResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.ProfileResponse, error)
	Update(ctx context.Context, p scope.Principal, id uint, payload dto.ProfileUpdateRequest) (dto.ProfileResponse, error)
	UpdateAvatar(ctx context.Context, p scope.Principal, id uint, file *multipart.FileHeader) (dto.ProfileResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type profileService struct {
	profiles  repository.ProfileRepository
	storage   AvatarStorage
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	maxSize   int64
	tracer    trace.Tracer
}

// NewProfileService builds a new profile service.
func NewProfileService(profiles repository.ProfileRepository, storage AvatarStorage, maxSizeMB int, validate *validator.Validate, logger zerolog.Logger) ProfileService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &profileService{
		profiles:  profiles,
		storage:   storage,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "profile_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		tracer:    otel.Tracer("github.com/shulehub/shule-api/internal/service/profile"),
	}
}

func (s *profileService) List(ctx context.Context, p scope.Principal) ([]dto.ProfileResponse, error) {
	profiles, err := s.profiles.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewProfileResponseSlice(profiles), nil
}

func (s *profileService) Get(ctx context.Context, p scope.Principal, id uint) (dto.ProfileResponse, error) {
	profile, err := s.profiles.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrProfileNotFound
		}
		return dto.ProfileResponse{}, err
	}
	return dto.NewProfileResponse(profile), nil
}

func (s *profileService) Update(ctx context.Context, p scope.Principal, id uint, payload dto.ProfileUpdateRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProfileResponse{}, err
	}

	profile, err := s.profiles.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrProfileNotFound
		}
		return dto.ProfileResponse{}, err
	}

	if payload.Bio != nil {
		profile.Bio = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Bio))
		if profile.Bio == "" {
			profile.Bio = models.DefaultProfileBio
		}
	}

	if err := s.profiles.Save(ctx, &profile); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.logger.Info().Uint("profile_id", profile.ID).Msg("profile updated")
	return dto.NewProfileResponse(profile), nil
}

func (s *profileService) UpdateAvatar(ctx context.Context, p scope.Principal, id uint, file *multipart.FileHeader) (dto.ProfileResponse, error) {
	ctx, span := s.tracer.Start(ctx, "profile.avatar")
	defer span.End()

	if file == nil {
		err := errors.New("avatar file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.ProfileResponse{}, err
	}

	span.SetAttributes(
		attribute.String("avatar.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("avatar.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		span.RecordError(ErrAvatarTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.ProfileResponse{}, ErrAvatarTooLarge
	}

	profile, err := s.profiles.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrProfileNotFound
		}
		return dto.ProfileResponse{}, err
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.ProfileResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.ProfileResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		span.RecordError(ErrAvatarTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.ProfileResponse{}, ErrAvatarTooLarge
	}

	detected := mimetype.Detect(buf.Bytes())
	if !strings.HasPrefix(detected.String(), "image/") {
		span.RecordError(ErrAvatarNotImage)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.ProfileResponse{}, ErrAvatarNotImage
	}

	url, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		return dto.ProfileResponse{}, err
	}

	profile.AvatarURL = url
	if err := s.profiles.Save(ctx, &profile); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.logger.Info().Uint("profile_id", profile.ID).Str("mime", detected.String()).Msg("avatar updated")
	return dto.NewProfileResponse(profile), nil
}

func (s *profileService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.profiles.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	s.logger.Info().Uint("profile_id", id).Msg("profile deleted")
	return nil
}
