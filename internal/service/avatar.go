package service

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Avatar upload constraints. The size limit applies to the original
// upload, before re-encoding.
const (
	maxAvatarBytes = 1_000_000

	avatarWidth  = 250
	avatarHeight = 250
)

// allowedAvatarExts are the accepted upload file extensions.
var allowedAvatarExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// processAvatar validates the raw upload and normalizes it into a
// 250x250 PNG. The image is cropped to fill the target dimensions so
// every stored avatar has the same shape.
func processAvatar(filename string, data []byte) ([]byte, error) {
	if len(data) > maxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedAvatarExts[ext] {
		return nil, ErrAvatarBadFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvatarBadFormat, err)
	}

	thumb := imaging.Fill(img, avatarWidth, avatarHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}
