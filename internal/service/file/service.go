package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

// Proof photos get re-encoded to bounded JPEGs so a 10MB camera shot does
// not land in storage as-is.
const (
	maxProofWidth = 1280
	jpegQuality   = 80
	punchTypeIn   = "check_in"
	punchTypeOut  = "check_out"
)

type Service interface {
	// UploadAttendanceProof stores a punch proof photo and returns its
	// opaque storage key.
	UploadAttendanceProof(ctx context.Context, employeeID string, date time.Time, file io.Reader, filename string, punchType string) (string, error)

	// GetFileURL resolves a stored key to a fetchable URL.
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// DeleteFile removes a stored file.
	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) Service {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadAttendanceProof(ctx context.Context, employeeID string, date time.Time, file io.Reader, filename string, punchType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	if punchType != punchTypeIn && punchType != punchTypeOut {
		return "", fmt.Errorf("invalid punch type: %s", punchType)
	}

	resized, err := resizeToJPEG(file, maxProofWidth)
	if err != nil {
		return "", fmt.Errorf("failed to process proof photo: %w", err)
	}

	path := fmt.Sprintf("attendance/%s/%s/%s_%s.jpg",
		employeeID,
		date.Format("2006-01-02"),
		punchType,
		uuid.New().String(),
	)

	key, err := s.storage.Upload(ctx, resized, path, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload proof photo: %w", err)
	}

	return key, nil
}

func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// resizeToJPEG decodes the image, scales it down to maxWidth if wider and
// re-encodes as JPEG.
func resizeToJPEG(file io.Reader, maxWidth int) (io.Reader, error) {
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxWidth {
		newHeight := bounds.Dy() * maxWidth / bounds.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &buf, nil
}
