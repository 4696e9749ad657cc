package forms

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/pkg/config"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	return appErr.Fields
}

func TestAppointmentDraft(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	t.Run("valid", func(t *testing.T) {
		req, err := AppointmentDraft{PatientID: 1, DoctorID: 2, Type: "tele", ScheduledAt: fixed.Add(time.Hour)}.Request()
		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentTypeTele, req.Type)
	})

	t.Run("past and missing", func(t *testing.T) {
		_, err := AppointmentDraft{DoctorID: 2, Type: "video", ScheduledAt: fixed.Add(-time.Minute)}.Request()
		got := fields(t, err)
		assert.Equal(t, "is required", got["patient_id"])
		assert.Equal(t, "must be one of: in_person, tele", got["appointment_type"])
		assert.Equal(t, "must not be in the past", got["scheduled_at"])
	})

	t.Run("zero time is required, not past", func(t *testing.T) {
		got := fields(t, RescheduleDraft{}.Validate())
		assert.Equal(t, "is required", got["scheduled_at"])
	})
}

func TestPasswordMinimum(t *testing.T) {
	got := fields(t, PasswordResetDraft{NewPassword: "12345"}.Validate())
	assert.Equal(t, "must be at least 6 characters", got["new_password"])
	assert.NoError(t, PasswordResetDraft{NewPassword: "123456"}.Validate())

	_, err := UserDraft{Name: "Ana", Email: "not-an-email", Password: "abc", RoleID: 2}.Request()
	got = fields(t, err)
	assert.Equal(t, "must be a valid email address", got["email"])
	assert.Equal(t, "must be at least 6 characters", got["password"])
}

func TestPatientDrafts(t *testing.T) {
	req, err := PatientDraft{Name: "  Ivy ", Phone: "555-0100", DateOfBirth: "1990-04-12"}.Request()
	require.NoError(t, err)
	assert.Equal(t, "Ivy", req.Name)

	_, err = PatientDraft{Name: "Ivy", Phone: "1", DateOfBirth: "12/04/1990"}.Request()
	assert.Equal(t, "must be a date in 2006-01-02 format", fields(t, err)["date_of_birth"])

	gender := "other"
	upd, err := PatientUpdateDraft{Gender: &gender}.Request()
	require.NoError(t, err)
	assert.Nil(t, upd.Name)
	assert.Equal(t, entities.PatientGenderOther, *upd.Gender)
}

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	pdfHeader = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

func uploadPolicy() config.UploadConfig {
	return config.UploadConfig{
		MaxBytes:         10 * 1024 * 1024,
		AllowedMIMETypes: []string{"image/jpeg", "image/png", "image/gif", "application/pdf"},
	}
}

func TestRecordUploadDraft(t *testing.T) {
	t.Run("png accepted", func(t *testing.T) {
		up, err := RecordUploadDraft{PatientID: 4, Source: "scan", FileName: "/tmp/chart.png", Content: pngHeader}.Upload(uploadPolicy())
		require.NoError(t, err)
		assert.Equal(t, "image/png", up.ContentType)
		assert.Equal(t, "chart.png", up.FileName)
		assert.Equal(t, entities.RecordSourceScan, up.Source)
	})

	t.Run("pdf accepted", func(t *testing.T) {
		up, err := RecordUploadDraft{PatientID: 4, Source: "photo", FileName: "x.pdf", Content: pdfHeader}.Upload(uploadPolicy())
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", up.ContentType)
	})

	t.Run("over limit", func(t *testing.T) {
		big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 10*1024*1024)...)
		_, err := RecordUploadDraft{PatientID: 4, Source: "scan", FileName: "big.png", Content: big}.Upload(uploadPolicy())
		assert.Equal(t, "must be 10 MB or smaller", fields(t, err)["file"])
	})

	t.Run("disallowed type despite extension", func(t *testing.T) {
		_, err := RecordUploadDraft{PatientID: 4, Source: "scan", FileName: "notes.png", Content: []byte("plain text notes\n")}.Upload(uploadPolicy())
		assert.Contains(t, fields(t, err)["file"], "text/plain")
	})

	t.Run("bad source", func(t *testing.T) {
		_, err := RecordUploadDraft{PatientID: 4, Source: "fax", FileName: "a.png", Content: pngHeader}.Upload(uploadPolicy())
		assert.Equal(t, "must be one of: scan, photo", fields(t, err)["source"])
	})
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestReadRecordFile(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		content, err := ReadRecordFile(writeFile(t, "chart.png", pngHeader), uploadPolicy())
		require.NoError(t, err)
		assert.Equal(t, pngHeader, content)
	})

	t.Run("oversized file rejected from its size", func(t *testing.T) {
		path := writeFile(t, "huge.png", pngHeader)
		require.NoError(t, os.Truncate(path, 11*1024*1024))

		content, err := ReadRecordFile(path, uploadPolicy())
		assert.Nil(t, content)
		assert.Equal(t, "must be 10 MB or smaller", fields(t, err)["file"])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadRecordFile(filepath.Join(t.TempDir(), "nope.png"), uploadPolicy())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestUploadURLRequest(t *testing.T) {
	t.Run("pdf", func(t *testing.T) {
		req, err := UploadURLRequest(4, writeFile(t, "referral.pdf", pdfHeader), uploadPolicy())
		require.NoError(t, err)
		assert.Equal(t, int64(4), req.PatientID)
		assert.Equal(t, "referral.pdf", req.FileName)
		assert.Equal(t, "application/pdf", req.ContentType)
	})

	t.Run("type sniffed, not taken from the name", func(t *testing.T) {
		_, err := UploadURLRequest(4, writeFile(t, "notes.pdf", []byte("plain text notes\n")), uploadPolicy())
		assert.Contains(t, fields(t, err)["file"], "text/plain")
	})

	t.Run("oversized", func(t *testing.T) {
		path := writeFile(t, "huge.png", pngHeader)
		require.NoError(t, os.Truncate(path, 11*1024*1024))
		_, err := UploadURLRequest(4, path, uploadPolicy())
		assert.Equal(t, "must be 10 MB or smaller", fields(t, err)["file"])
	})

	t.Run("patient required", func(t *testing.T) {
		_, err := UploadURLRequest(0, writeFile(t, "chart.png", pngHeader), uploadPolicy())
		assert.Equal(t, "is required", fields(t, err)["patient_id"])
	})
}
