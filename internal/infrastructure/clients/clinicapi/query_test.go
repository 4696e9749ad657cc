package clinicapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_OmitsUnsetKeys(t *testing.T) {
	active := false
	skip := 0
	filter := struct {
		Date     string  `json:"date,omitempty"`
		DoctorID int64   `json:"doctor_id,omitempty"`
		IsActive *bool   `json:"is_active,omitempty"`
		Skip     *int    `json:"skip,omitempty"`
		Limit    *int    `json:"limit,omitempty"`
		IDs      []int64 `json:"ids,omitempty"`
	}{Date: "2026-03-01", IsActive: &active, Skip: &skip, IDs: []int64{1, 2}}

	values, err := Query(filter)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", values.Get("date"))
	assert.Equal(t, "false", values.Get("is_active"))
	assert.Equal(t, "0", values.Get("skip"))
	assert.Equal(t, []string{"1", "2"}, values["ids"])
	assert.NotContains(t, values, "doctor_id")
	assert.NotContains(t, values, "limit")
}

func TestQuery_Nil(t *testing.T) {
	values, err := Query(nil)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRouteOf(t *testing.T) {
	assert.Equal(t, "/appointments/{id}/cancel", routeOf("/appointments/42/cancel"))
	assert.Equal(t, "/api/v1/tele-sessions/admin/list", routeOf("/api/v1/tele-sessions/admin/list"))
}
