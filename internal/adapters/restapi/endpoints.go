package restapi

import "fmt"

// Paths are relative to the versioned API base URL.
const (
	pathLogin  = "/auth/login"
	pathMe     = "/auth/me"
	pathHealth = "/health"

	pathUsers         = "/users/"
	pathRoles         = "/roles/"
	pathBranches      = "/branches/"
	pathDoctors       = "/doctors/"
	pathPatients      = "/admin/patients/"
	pathAppointments  = "/appointments/"
	pathConsultations = "/consultations/"
	pathPrescriptions = "/prescriptions/"
	pathTeleStart     = "/tele-sessions/start"
	pathTeleAdminList = "/tele-sessions/admin/list"
	pathRecords       = "/migrated-records/"
	pathRecordUpload  = "/migrated-records/upload-url"
	pathAuditLogs     = "/audit-logs/"
	pathAuditActions  = "/audit-logs/actions/distinct"
	pathAuditEntities = "/audit-logs/entity-types/distinct"
)

func userPath(id int64) string                 { return fmt.Sprintf("/users/%d", id) }
func userActionPath(id int64, a string) string { return fmt.Sprintf("/users/%d/%s", id, a) }
func rolePath(id int64) string                 { return fmt.Sprintf("/roles/%d", id) }

func branchPath(id int64) string                 { return fmt.Sprintf("/branches/%d", id) }
func branchActionPath(id int64, a string) string { return fmt.Sprintf("/branches/%d/%s", id, a) }

func doctorPath(id int64) string                 { return fmt.Sprintf("/doctors/%d", id) }
func doctorActionPath(id int64, a string) string { return fmt.Sprintf("/doctors/%d/%s", id, a) }

func patientPath(id int64) string         { return fmt.Sprintf("/admin/patients/%d", id) }
func patientTimelinePath(id int64) string { return fmt.Sprintf("/patients/%d/timeline", id) }

func appointmentPath(id int64) string                 { return fmt.Sprintf("/appointments/%d", id) }
func appointmentActionPath(id int64, a string) string { return fmt.Sprintf("/appointments/%d/%s", id, a) }

func consultationPath(id int64) string              { return fmt.Sprintf("/consultations/%d", id) }
func consultationByAppointmentPath(id int64) string { return fmt.Sprintf("/consultations/appointment/%d", id) }
func prescriptionPath(id int64) string              { return fmt.Sprintf("/prescriptions/%d", id) }
func prescriptionsByConsultationPath(id int64) string {
	return fmt.Sprintf("/prescriptions/consultation/%d", id)
}

func teleSessionPath(id int64) string                 { return fmt.Sprintf("/tele-sessions/%d", id) }
func teleSessionActionPath(id int64, a string) string { return fmt.Sprintf("/tele-sessions/%d/%s", id, a) }
func teleByAppointmentPath(id int64) string           { return fmt.Sprintf("/tele-sessions/appointment/%d", id) }
func teleAdminByAppointmentPath(id int64) string {
	return fmt.Sprintf("/tele-sessions/admin/appointment/%d", id)
}

func recordsByPatientPath(id int64) string { return fmt.Sprintf("/migrated-records/patient/%d", id) }

func auditLogPath(id int64) string { return fmt.Sprintf("/audit-logs/%d", id) }
