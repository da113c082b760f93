// Package cloudinary uploads images to Cloudinary with an unsigned upload
// preset.
package cloudinary

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MaxSize is the largest accepted upload in bytes.
const MaxSize = 10 << 20

// AllowedTypes are the accepted image MIME types.
var AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

var (
	ErrNotConfigured   = errors.New("Image upload is not configured")
	ErrEmpty           = errors.New("File is empty")
	ErrTooLarge        = errors.New("File size too large. Maximum size is 10MB.")
	ErrUnsupportedType = errors.New("Invalid file type. Only JPEG, PNG, and WebP are allowed.")
)

// UploadError carries the message returned by the upload API.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string { return e.Message }

type Result struct {
	URL         string
	PublicID    string
	ContentType string
	Size        int64
}

type Uploader struct {
	cloud  string
	preset string
	cld    *cld.Cloudinary
}

type Option func(*Uploader)

// WithHTTPClient replaces the client the SDK sends uploads with.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.cld.Upload.Client = *c }
}

// New builds an unsigned uploader. base is the API host, empty for the
// Cloudinary default.
func New(base, cloud, preset string, opts ...Option) (*Uploader, error) {
	conf, err := cldconfig.NewFromParams(cloud, "", "")
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary config")
	}
	if base = strings.TrimRight(base, "/"); base != "" {
		conf.API.UploadPrefix = base
	}
	c, err := cld.NewFromConfiguration(*conf)
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary client")
	}

	u := &Uploader{cloud: cloud, preset: preset, cld: c}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

func (u *Uploader) Configured() bool {
	return u.cloud != "" && u.preset != ""
}

// Check reads the whole file and verifies its size and sniffed type.
func Check(r io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, "", errors.Wrap(err, "read upload")
	}
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}
	if len(data) > MaxSize {
		return nil, "", ErrTooLarge
	}
	mtype := mimetype.Detect(data)
	for _, t := range AllowedTypes {
		if mtype.Is(t) {
			return data, t, nil
		}
	}
	return nil, "", ErrUnsupportedType
}

// Upload sends the image into folder and returns its public URL. The
// filename only names the asset in logs; the public ID is random.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, filename, folder string) (Result, error) {
	if !u.Configured() {
		return Result{}, ErrNotConfigured
	}
	data, contentType, err := Check(r)
	if err != nil {
		return Result{}, err
	}

	resp, err := u.cld.Upload.UnsignedUpload(ctx, bytes.NewReader(data), u.preset, uploader.UploadParams{
		ResourceType: "image",
		AssetFolder:  folder,
		PublicID:     uuid.NewString(),
	})
	if resp != nil && resp.Error.Message != "" {
		return Result{}, &UploadError{Message: resp.Error.Message}
	}
	if err != nil {
		return Result{}, errors.Wrapf(err, "upload image %s", filename)
	}
	if resp.SecureURL == "" {
		return Result{}, &UploadError{Message: "Upload response has no URL"}
	}

	size := int64(resp.Bytes)
	if size == 0 {
		size = int64(len(data))
	}
	return Result{URL: resp.SecureURL, PublicID: resp.PublicID, ContentType: contentType, Size: size}, nil
}
