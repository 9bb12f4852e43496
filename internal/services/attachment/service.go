// Package attachment stages local evidence files for assessment steps.
package attachment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/riordanpawley/vantage/internal/domain"
)

// MaxSize is the largest file accepted as evidence
const MaxSize int64 = 10 << 20

// Service inspects and stages evidence attachments
type Service struct {
	stageDir string
	logger   *slog.Logger
}

// NewService creates a new attachment service. Clipboard captures are written
// to stageDir.
func NewService(stageDir string, logger *slog.Logger) *Service {
	return &Service{
		stageDir: stageDir,
		logger:   logger,
	}
}

// Inspect validates a local file and describes it as an attachment
func (s *Service) Inspect(ctx context.Context, path string) (domain.Attachment, error) {
	s.logger.Debug("inspecting attachment", "path", path)

	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return domain.Attachment{}, &domain.ValidationError{Field: "file", Message: "File path is required"}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Attachment{}, &domain.ValidationError{Field: "file", Message: "File not found: " + path}
		}
		return domain.Attachment{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return domain.Attachment{}, &domain.ValidationError{Field: "file", Message: "Cannot attach a directory"}
	}
	if info.Size() == 0 {
		return domain.Attachment{}, &domain.ValidationError{Field: "file", Message: "File is empty"}
	}
	if info.Size() > MaxSize {
		return domain.Attachment{}, &domain.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("File is larger than %d MB", MaxSize>>20),
		}
	}

	return domain.Attachment{
		Name:     filepath.Base(path),
		Path:     path,
		MimeType: detectMimeTypeFromFile(path),
		Size:     info.Size(),
	}, nil
}

// FromClipboard captures an image from the clipboard into the staging
// directory and returns it as an attachment for the given step
func (s *Service) FromClipboard(ctx context.Context, step string) (domain.Attachment, error) {
	s.logger.Debug("attaching from clipboard", "step", step)

	data, err := ReadImageFromClipboard(ctx)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to read clipboard: %w", err)
	}
	return s.stage(step, data)
}

// Discard removes a staged clipboard capture. Files outside the staging
// directory belong to the user and are left alone.
func (s *Service) Discard(att domain.Attachment) error {
	if !s.isStaged(att.Path) {
		return nil
	}
	if err := os.Remove(att.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	s.logger.Debug("staged attachment removed", "path", att.Path)
	return nil
}

func (s *Service) stage(step string, data []byte) (domain.Attachment, error) {
	if len(data) == 0 {
		return domain.Attachment{}, fmt.Errorf("clipboard is empty or does not contain an image")
	}
	if int64(len(data)) > MaxSize {
		return domain.Attachment{}, &domain.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("File is larger than %d MB", MaxSize>>20),
		}
	}

	if err := os.MkdirAll(s.stageDir, 0o700); err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to create staging directory: %w", err)
	}

	mimeType := detectMimeType(data)
	name := fmt.Sprintf("%s-%s%s", step, time.Now().Format("20060102-150405"), mimeTypeToExt(mimeType))
	dest := filepath.Join(s.stageDir, name)
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to write attachment: %w", err)
	}

	s.logger.Debug("attachment staged", "path", dest, "mime", mimeType)
	return domain.Attachment{
		Name:     name,
		Path:     dest,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}, nil
}

func (s *Service) isStaged(path string) bool {
	if s.stageDir == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(s.stageDir, path)
	return err == nil && !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// detectMimeType detects the MIME type from file data
func detectMimeType(data []byte) string {
	switch {
	case len(data) >= 8 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47:
		return "image/png"
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case len(data) >= 6 && (string(data[0:6]) == "GIF89a" || string(data[0:6]) == "GIF87a"):
		return "image/gif"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	case len(data) >= 5 && string(data[0:5]) == "%PDF-":
		return "application/pdf"
	case len(data) >= 4 && string(data[0:4]) == "PK\x03\x04":
		return "application/zip"
	}
	return "application/octet-stream"
}

// detectMimeTypeFromFile detects MIME type from the extension, falling back
// to the leading bytes
func detectMimeTypeFromFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv"
	case ".txt", ".md":
		return "text/plain"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	f, err := os.Open(path)
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()
	head := make([]byte, 12)
	n, _ := io.ReadFull(f, head)
	return detectMimeType(head[:n])
}

// mimeTypeToExt converts MIME type to file extension
func mimeTypeToExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
