package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileTypeUnsupported = errors.New("only .jpg, .jpeg and .png images are allowed")
	ErrNoFile              = errors.New("no file provided")
)

const DefaultMaxImageSize = 5 << 20

var (
	allowedImageExts  = []string{".jpg", ".jpeg", ".png"}
	allowedImageMimes = []string{"image/jpeg", "image/png"}
)

// Image is an upload that passed ImageValidator. The caller must close File.
type Image struct {
	File        multipart.File
	Size        int64
	Ext         string
	ContentType string
}

// ImageValidator checks the extension, size and sniffed content type of an
// uploaded image. On success the returned file is rewound to the start.
func ImageValidator(fh *multipart.FileHeader, maxSize int64) (*Image, error) {
	if fh == nil {
		return nil, ErrNoFile
	}

	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !slices.Contains(allowedImageExts, ext) {
		return nil, ErrFileTypeUnsupported
	}

	if fh.Size > maxSize {
		return nil, ErrFileTooLarge
	}

	// Header checks are easy to spoof, look at the content as well
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if !slices.ContainsFunc(allowedImageMimes, mime.Is) {
		f.Close()
		return nil, ErrFileTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	return &Image{
		File:        f,
		Size:        fh.Size,
		Ext:         ext,
		ContentType: mime.String(),
	}, nil
}
