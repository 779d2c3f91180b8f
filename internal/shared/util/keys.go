package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"time"
)

const (
	resumePrefix       = "resumes"
	profilePhotoPrefix = "profile-photos"
)

// ResumeKey builds the blob key for an uploaded resume. The millisecond
// timestamp keeps repeated uploads of the same file name from colliding.
func ResumeKey(ownerID, fileName string, at time.Time) (string, error) {
	name, err := SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	return path.Join(resumePrefix, OwnerSegment(ownerID), fmt.Sprintf("%d_%s", at.UnixMilli(), name)), nil
}

// ProfilePhotoKey builds the blob key for a user's profile photo. The
// extension follows contentType so stores that infer types from the key serve
// the image correctly. A new upload of the same type replaces the previous one.
func ProfilePhotoKey(uid, contentType string) string {
	return path.Join(profilePhotoPrefix, OwnerSegment(uid)+photoExtensions[contentType])
}

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// OwnerSegment maps a user id to the hex path segment that namespaces that
// user's blobs, so raw ids never appear in storage keys.
func OwnerSegment(uid string) string {
	sum := sha256.Sum256([]byte(uid))
	return hex.EncodeToString(sum[:])
}
