package validators

import (
	"mime/multipart"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// Smallest payloads mimetype recognizes by magic bytes
var pngHeader = []byte("\x89PNG\r\n\x1a\n0000000000")

func setUploadConfig(t *testing.T) {
	t.Helper()
	viper.Set("upload.max_size", 1<<20)
	viper.Set("upload.allowed_types", []string{"image", "video"})
}

func TestMediaValidator(t *testing.T) {
	setUploadConfig(t)

	fh := &multipart.FileHeader{Filename: "photo.png"}

	mediaType, err := MediaValidator(fh, pngHeader)
	require.NoError(t, err)
	require.Equal(t, "image", mediaType)
}

func TestMediaValidatorRejectsUnknownType(t *testing.T) {
	setUploadConfig(t)

	fh := &multipart.FileHeader{Filename: "notes.txt"}

	_, err := MediaValidator(fh, []byte("just some text"))
	require.ErrorIs(t, err, ErrFileTypeUnsupported)
}

func TestMediaValidatorRejectsOversize(t *testing.T) {
	setUploadConfig(t)
	viper.Set("upload.max_size", 4)

	fh := &multipart.FileHeader{Filename: "photo.png"}

	_, err := MediaValidator(fh, pngHeader)
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestMediaValidatorRejectsLongName(t *testing.T) {
	setUploadConfig(t)

	fh := &multipart.FileHeader{Filename: strings.Repeat("a", 300)}

	_, err := MediaValidator(fh, pngHeader)
	require.ErrorIs(t, err, ErrFileNameTooLong)
}

func TestMediaValidatorNoFile(t *testing.T) {
	setUploadConfig(t)

	_, err := MediaValidator(nil, nil)
	require.ErrorIs(t, err, ErrNoFile)
}
