package entities

// Severity classifies an operator notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Toast is a non-blocking notification surfaced to the operator
type Toast struct {
	Severity Severity
	Message  string
}
