package validators

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
	ErrNoFile              = errors.New("no file provided")
)

const maxFileNameSize = 255

// MediaValidator checks a single uploaded file against the size and type
// limits and classifies it as "image" or "video" by sniffing the payload,
// since the multipart Content-Type header is trivial to spoof.
func MediaValidator(fh *multipart.FileHeader, data []byte) (mediaType string, err error) {
	if fh == nil {
		return "", ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return "", ErrFileNameTooLong
	}

	if int64(len(data)) > viper.GetInt64("upload.max_size") {
		return "", ErrFileTooLarge
	}

	mime := mimetype.Detect(data)

	for _, t := range viper.GetStringSlice("upload.allowed_types") {
		if strings.HasPrefix(mime.String(), t+"/") {
			return t, nil
		}
	}

	return "", ErrFileTypeUnsupported
}
