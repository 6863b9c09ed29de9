package utils

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedFormat is returned for upload names whose extension is not in
// the allowed set.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// NormalizedExt extracts the lower-cased extension from a client filename and
// maps jpeg to jpg. Returns ErrUnsupportedFormat when the extension is absent
// or not allowed.
func NormalizedExt(filename string) (string, error) {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 || idx == len(filename)-1 {
		return "", ErrUnsupportedFormat
	}
	ext := strings.ToLower(filename[idx+1:])
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedFormat
	}
	if ext == "jpeg" {
		ext = "jpg"
	}
	return ext, nil
}

// AllocateFilename validates the client filename and produces a collision-free
// storage name: <prefix><random-token>.<ext>. Client names are never used for
// storage.
func AllocateFilename(originalName, prefix string) (string, error) {
	ext, err := NormalizedExt(originalName)
	if err != nil {
		return "", err
	}
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + token + "." + ext, nil
}

// SanitizeOriginalName reduces a client-supplied filename to a display-safe
// base name: path components and path-unsafe characters are removed. The
// result is kept for display/audit only.
func SanitizeOriginalName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range base {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			// drop path-unsafe characters
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ThumbName derives the thumbnail storage name for a main asset name.
func ThumbName(filename string) string {
	return "thumb_" + filename
}

// PublicPath maps a storage name to its public URL path.
func PublicPath(filename string) string {
	return "/uploads/" + filename
}
