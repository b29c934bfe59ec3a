package alarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveAlarms(t *testing.T) {
	a := &ActiveAlarms{}

	assert.True(t, a.Add("charger-offline"))
	assert.False(t, a.Add("charger-offline"))
	assert.True(t, a.Add("schedule-fetch"))
	assert.Equal(t, []string{"charger-offline", "schedule-fetch"}, a.Active())

	assert.True(t, a.Remove("charger-offline"))
	assert.False(t, a.Remove("charger-offline"))
	assert.Equal(t, []string{"schedule-fetch"}, a.Active())

	assert.True(t, a.Clear())
	assert.False(t, a.Clear())
	assert.Empty(t, a.Active())
}
