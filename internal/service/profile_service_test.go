package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/scope"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func avatarFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("avatar", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["avatar"][0]
}

func newProfileFixture() (*fakeProfiles, scope.Principal) {
	profiles := &fakeProfiles{
		profiles: []models.Profile{{
			ID:        1,
			AccountID: 1,
			Bio:       models.DefaultProfileBio,
			AvatarURL: models.DefaultProfileAvatar,
		}},
	}
	return profiles, scope.Principal{AccountID: 1, TeacherID: 1}
}

func TestUpdateProfileSanitizesBio(t *testing.T) {
	profiles, owner := newProfileFixture()
	svc := NewProfileService(profiles, &stubStorage{}, 5, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	bio := "I teach <b>mathematics</b> in Moshi"
	resp, err := svc.Update(context.Background(), owner, 1, dto.ProfileUpdateRequest{Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, "I teach mathematics in Moshi", resp.Bio)
}

func TestUpdateProfileBlankBioFallsBackToDefault(t *testing.T) {
	profiles, owner := newProfileFixture()
	svc := NewProfileService(profiles, &stubStorage{}, 5, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	// Markup-only input sanitizes down to nothing.
	bio := "<script>alert(1)</script>"
	resp, err := svc.Update(context.Background(), owner, 1, dto.ProfileUpdateRequest{Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, models.DefaultProfileBio, resp.Bio)
}

func TestUpdateAvatarStoresUploadedURL(t *testing.T) {
	profiles, owner := newProfileFixture()
	storage := &stubStorage{url: "https://cdn.example.com/avatars/1.png"}
	svc := NewProfileService(profiles, storage, 5, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	file := avatarFile(t, "me.png", pngMagic)
	resp, err := svc.UpdateAvatar(context.Background(), owner, 1, file)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/avatars/1.png", resp.AvatarURL)
	require.Equal(t, []string{"me.png"}, storage.uploaded)
	require.Equal(t, "https://cdn.example.com/avatars/1.png", profiles.profiles[0].AvatarURL)
}

func TestUpdateAvatarRejectsNonImage(t *testing.T) {
	profiles, owner := newProfileFixture()
	svc := NewProfileService(profiles, &stubStorage{}, 5, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	file := avatarFile(t, "notes.txt", []byte("plain text, not a picture"))
	_, err := svc.UpdateAvatar(context.Background(), owner, 1, file)
	require.ErrorIs(t, err, ErrAvatarNotImage)
	require.Equal(t, models.DefaultProfileAvatar, profiles.profiles[0].AvatarURL)
}

func TestUpdateAvatarRejectsOversizedFile(t *testing.T) {
	profiles, owner := newProfileFixture()
	storage := &stubStorage{}
	svc := &profileService{
		profiles:  profiles,
		storage:   storage,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		sanitizer: bluemonday.StrictPolicy(),
		logger:    testLogger(),
		maxSize:   16,
		tracer:    otel.Tracer("profile-test"),
	}

	file := avatarFile(t, "huge.png", append(pngMagic, bytes.Repeat([]byte{0}, 64)...))
	_, err := svc.UpdateAvatar(context.Background(), owner, 1, file)
	require.ErrorIs(t, err, ErrAvatarTooLarge)
	require.Empty(t, storage.uploaded)
}

func TestUpdateAvatarOutsideScope(t *testing.T) {
	profiles, _ := newProfileFixture()
	svc := NewProfileService(profiles, &stubStorage{}, 5, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	outsider := scope.Principal{AccountID: 9, TeacherID: 9}
	file := avatarFile(t, "me.png", pngMagic)
	_, err := svc.UpdateAvatar(context.Background(), outsider, 1, file)
	require.ErrorIs(t, err, ErrProfileNotFound)
}
