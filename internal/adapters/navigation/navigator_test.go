package navigation

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

func TestCLINavigator(t *testing.T) {
	var out bytes.Buffer
	n := NewCLINavigator("/appointments", &out)

	require.NoError(t, n.Navigate(context.Background(), providers.RouteLogin))

	assert.Equal(t, providers.RouteLogin, n.Current())
	assert.Equal(t, []string{providers.RouteLogin}, n.History())
	assert.Contains(t, out.String(), "clinicadmin login")
}
