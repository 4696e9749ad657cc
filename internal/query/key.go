package query

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Resource names used as the first segment of every cache key
const (
	ResourceAppointments    = "appointments"
	ResourcePatients        = "patients"
	ResourceDoctors         = "doctors"
	ResourceBranches        = "branches"
	ResourceUsers           = "users"
	ResourceRoles           = "roles"
	ResourceAuditLogs       = "audit_logs"
	ResourceTeleSessions    = "tele_sessions"
	ResourceMigratedRecords = "migrated_records"
	ResourceConsultations   = "consultations"
	ResourcePrescriptions   = "prescriptions"
)

// Operations. OpList keys are invalidated by prefix, every other operation by exact key.
const (
	OpList   = "list"
	OpDetail = "detail"
)

// Key identifies one cached server response
type Key struct {
	Resource  string
	Operation string
	Params    interface{}
}

// ListKey builds a list key for resource with filter params
func ListKey(resource string, params interface{}) Key {
	return Key{Resource: resource, Operation: OpList, Params: params}
}

// DetailKey builds the detail key for one entity
func DetailKey(resource string, id int64) Key {
	return Key{Resource: resource, Operation: OpDetail, Params: id}
}

// String renders resource:operation:<canonical JSON params>. Value-equal
// params produce the same string regardless of field or map key order.
func (k Key) String() string {
	return k.prefix() + canonicalJSON(k.Params)
}

// scope is the invalidation unit the key belongs to
func (k Key) scope() string {
	if k.Operation == OpList {
		return k.prefix()
	}
	return k.String()
}

func (k Key) prefix() string {
	return k.Resource + ":" + k.Operation + ":"
}

// canonicalJSON re-encodes v through a generic value so object keys come out
// sorted. Numbers are kept verbatim.
func canonicalJSON(v interface{}) string {
	if v == nil {
		return "{}"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "!" + err.Error()
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return string(raw)
	}

	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return string(raw)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
