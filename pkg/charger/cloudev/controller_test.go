package cloudev

import (
	"testing"

	"github.com/fortnoxab/gohtmock"
	"github.com/stretchr/testify/assert"
)

func TestCloudEVState(t *testing.T) {
	mock := gohtmock.New()

	mock.Mock("/api/1/vehicles/5YJ3E1EA/vehicle_data", `
{
  "response": {
    "charge_state": {
      "battery_level": 62,
      "charge_limit_soc": 80,
      "battery_range": 150,
      "charging_state": "Charging",
      "charger_power": 11,
      "charger_actual_current": 16
    }
  }
}`)

	c := New(mock.URL(), "mysecrettoken", "5YJ3E1EA")
	s, err := c.State()
	assert.NoError(t, err)
	assert.Equal(t, 62.0, *s.BatteryLevel)
	assert.Equal(t, 80.0, *s.ChargeLimit)
	assert.InDelta(t, 241.4, *s.RangeKm, 0.1)
	assert.True(t, *s.Charging)
	assert.True(t, *s.PluggedIn)
	assert.Equal(t, 11000.0, *s.ChargerPower)
	mock.AssertMocksCalled(t)
}

func TestCloudEVStateDisconnected(t *testing.T) {
	mock := gohtmock.New()

	mock.Mock("/api/1/vehicles/5YJ3E1EA/vehicle_data", `
{
  "response": {
    "charge_state": {
      "charging_state": "Disconnected"
    }
  }
}`)

	c := New(mock.URL(), "mysecrettoken", "5YJ3E1EA")
	s, err := c.State()
	assert.NoError(t, err)
	assert.Nil(t, s.BatteryLevel)
	assert.False(t, *s.Charging)
	assert.False(t, *s.PluggedIn)
}

func TestCloudEVStartCharging(t *testing.T) {
	var tests = []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name: "accepted",
			body: `{"response": {"result": true, "reason": ""}}`,
		},
		{
			name: "already charging is not an error",
			body: `{"response": {"result": false, "reason": "is_charging"}}`,
		},
		{
			name:        "refused",
			body:        `{"response": {"result": false, "reason": "could_not_wake_buses"}}`,
			expectError: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mock := gohtmock.New()
			mock.Mock("/api/1/vehicles/5YJ3E1EA/command/charge_start", tt.body).SetMethod("POST")

			c := New(mock.URL(), "mysecrettoken", "5YJ3E1EA")
			err := c.StartCharging()
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			mock.AssertCallCount(t, "POST", "/api/1/vehicles/5YJ3E1EA/command/charge_start", 1)
		})
	}
}

func TestCloudEVStopCharging(t *testing.T) {
	mock := gohtmock.New()
	mock.Mock("/api/1/vehicles/5YJ3E1EA/command/charge_stop", `{"response": {"result": false, "reason": "not_charging"}}`).SetMethod("POST")

	c := New(mock.URL(), "mysecrettoken", "5YJ3E1EA")
	assert.NoError(t, c.StopCharging())
}
