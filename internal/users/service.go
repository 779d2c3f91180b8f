package users

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-scorer/internal/shared/storage/object"
	"resume-scorer/internal/shared/telemetry"
	"resume-scorer/internal/shared/util"
)

// MaxPhotoBytes is the largest accepted profile photo.
const MaxPhotoBytes = 5 << 20

var (
	ErrInvalidPhoto = errors.New("invalid photo")
	ErrStorage      = errors.New("photo storage failed")
)

var allowedPhotoTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

type Service struct {
	Repo  Repo
	Store object.Store
}

func NewService(repo Repo, store object.Store) *Service {
	return &Service{Repo: repo, Store: store}
}

func (s *Service) GetByID(ctx context.Context, uid string) (Profile, error) {
	if strings.TrimSpace(uid) == "" {
		return Profile{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, uid)
}

// ValidatePhoto checks photo metadata before any storage call.
func ValidatePhoto(p Photo) error {
	if _, ok := allowedPhotoTypes[photoContentType(p.ContentType)]; !ok {
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidPhoto, p.ContentType)
	}
	if p.Size <= 0 || p.Size > MaxPhotoBytes {
		return fmt.Errorf("%w: size %d", ErrInvalidPhoto, p.Size)
	}
	return nil
}

func photoContentType(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}

// UploadPhoto stores the photo under the user's key for its image type and
// records its download URL on the profile.
func (s *Service) UploadPhoto(ctx context.Context, uid string, p Photo) (Profile, error) {
	if err := ValidatePhoto(p); err != nil {
		return Profile{}, err
	}
	if _, err := s.Repo.GetByID(ctx, uid); err != nil {
		return Profile{}, err
	}

	contentType := photoContentType(p.ContentType)
	key := util.ProfilePhotoKey(uid, contentType)
	if _, err := s.Store.Put(ctx, key, contentType, bytes.NewReader(p.Data)); err != nil {
		return Profile{}, fmt.Errorf("%w: put %s: %w", ErrStorage, key, err)
	}
	url, err := s.Store.DownloadURL(ctx, key)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: download url %s: %w", ErrStorage, key, err)
	}
	if err := s.Repo.UpdatePhotoURL(ctx, uid, url); err != nil {
		return Profile{}, err
	}
	telemetry.Info("profile.photo_updated", map[string]any{"user_id": uid, "file_ref": key})
	return s.Repo.GetByID(ctx, uid)
}
