package entities

import "time"

// RecordSource tags how a legacy record was digitised
type RecordSource string

const (
	RecordSourceScan  RecordSource = "scan"
	RecordSourcePhoto RecordSource = "photo"
)

// MigratedRecord is an uploaded scan or photo of a legacy patient record
type MigratedRecord struct {
	ID               int64        `json:"id"`
	PatientID        int64        `json:"patient_id"`
	FileURL          string       `json:"file_url"`
	FileName         string       `json:"file_name"`
	Source           RecordSource `json:"source"`
	Notes            string       `json:"notes,omitempty"`
	UploadedAt       time.Time    `json:"uploaded_at"`
	UploadedByUserID int64        `json:"uploaded_by_user_id"`
}

// RecordUpload is a validated file ready to be sent as multipart form data
type RecordUpload struct {
	PatientID   int64
	Source      RecordSource
	Notes       string
	FileName    string
	ContentType string
	Content     []byte
}

// UploadURLRequest asks the backend for a pre-signed upload location
type UploadURLRequest struct {
	PatientID   int64  `json:"patient_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// UploadURL is a pre-signed upload location
type UploadURL struct {
	UploadURL string     `json:"upload_url"`
	FileURL   string     `json:"file_url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
