package forms

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/pkg/config"
)

// RecordUploadDraft is a migrated record picked for upload
type RecordUploadDraft struct {
	PatientID int64  `form:"patient_id" validate:"required"`
	Source    string `form:"source" validate:"required,oneof=scan photo"`
	Notes     string `form:"notes" validate:"max=2000"`
	FileName  string `form:"file" validate:"required"`
	Content   []byte `form:"-" validate:"-"`
}

// Upload validates the draft against policy. The content type is sniffed from
// the bytes, never trusted from the file name.
func (d RecordUploadDraft) Upload(policy config.UploadConfig) (*entities.RecordUpload, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	if len(d.Content) == 0 {
		return nil, fieldError("file", "is empty")
	}
	if err := checkSize(int64(len(d.Content)), policy); err != nil {
		return nil, err
	}
	contentType, err := allowedType(mimetype.Detect(d.Content), policy)
	if err != nil {
		return nil, err
	}

	return &entities.RecordUpload{
		PatientID:   d.PatientID,
		Source:      entities.RecordSource(d.Source),
		Notes:       d.Notes,
		FileName:    filepath.Base(d.FileName),
		ContentType: contentType,
		Content:     d.Content,
	}, nil
}

// ReadRecordFile loads a record from disk. The size is checked from the file's
// metadata first, so an oversized file is rejected without being read.
func ReadRecordFile(path string, policy config.UploadConfig) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fieldError("file", "is a directory")
	}
	if err := checkSize(info.Size(), policy); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}

// UploadURLRequest builds a pre-signed upload request for the file at path.
// Only the file's header is read to detect its type.
func UploadURLRequest(patientID int64, path string, policy config.UploadConfig) (*entities.UploadURLRequest, error) {
	if patientID <= 0 {
		return nil, fieldError("patient_id", "is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, fieldError("file", "is empty")
	}
	if err := checkSize(info.Size(), policy); err != nil {
		return nil, err
	}
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	contentType, err := allowedType(detected, policy)
	if err != nil {
		return nil, err
	}
	return &entities.UploadURLRequest{
		PatientID:   patientID,
		FileName:    filepath.Base(path),
		ContentType: contentType,
	}, nil
}

func checkSize(size int64, policy config.UploadConfig) error {
	if policy.MaxBytes > 0 && size > policy.MaxBytes {
		return fieldError("file", fmt.Sprintf("must be %s or smaller", humanBytes(policy.MaxBytes)))
	}
	return nil
}

func allowedType(detected *mimetype.MIME, policy config.UploadConfig) (string, error) {
	for _, allowed := range policy.AllowedMIMETypes {
		if detected.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fieldError("file", fmt.Sprintf("type %s is not allowed", detected.String()))
}

func humanBytes(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
