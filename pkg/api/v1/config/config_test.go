package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nergy-se/evcharge/pkg/api/v1/types"
	"github.com/nergy-se/evcharge/pkg/price"
	"github.com/stretchr/testify/assert"
)

func TestCloudConfigDecode(t *testing.T) {
	d := `
{
  "controllerId": "88e7f9b7-7a6d-41e1-9861-0817998443c7",
  "chargerType": "modbusevse",
  "address": "10.0.0.1:502",
  "enableLowPrice": true,
  "cheapIntervals": 16,
  "selectionMode": "",
  "lowBatteryThreshold": 40,
  "manualOverrideMinutes": 120,
  "mainFuseAmps": 20,
  "locale": "sv-SE",
  "timezone": "Europe/Stockholm"
}`

	conf := &CloudConfig{}
	err := json.Unmarshal([]byte(d), conf)
	assert.NoError(t, err)
	assert.Equal(t, types.ChargerTypeModbusEVSE, conf.ChargerType)
	assert.Equal(t, 16, conf.CheapIntervals)
	assert.Equal(t, 40.0, *conf.LowBatteryThreshold)
	assert.Equal(t, price.ModeCheapest, conf.Mode())
	assert.Equal(t, 2*time.Hour, conf.OverrideDuration())
}

func TestCloudConfigDefaults(t *testing.T) {
	conf := &CloudConfig{}
	assert.Equal(t, price.ModeCheapest, conf.Mode())
	assert.Equal(t, 3*time.Hour, conf.OverrideDuration())

	conf.SelectionMode = price.ModeContiguous
	assert.Equal(t, price.ModeContiguous, conf.Mode())
}

func TestCloudConfigNeedsChargerSetup(t *testing.T) {
	var tests = []struct {
		name     string
		old      *CloudConfig
		new      *CloudConfig
		expected bool
	}{
		{
			name:     "nil old always needs setup",
			old:      nil,
			new:      &CloudConfig{},
			expected: true,
		},
		{
			name:     "changed type",
			old:      &CloudConfig{ChargerType: types.ChargerTypeDummy},
			new:      &CloudConfig{ChargerType: types.ChargerTypeModbusEVSE},
			expected: true,
		},
		{
			name:     "changed address",
			old:      &CloudConfig{Address: "10.0.0.1:502"},
			new:      &CloudConfig{Address: "10.0.0.2:502"},
			expected: true,
		},
		{
			name:     "changed vin",
			old:      &CloudConfig{VIN: "5YJ3E1EA"},
			new:      &CloudConfig{VIN: "5YJ3E1EB"},
			expected: true,
		},
		{
			name:     "unchanged",
			old:      &CloudConfig{ChargerType: types.ChargerTypeDummy, Address: "a", VIN: "v"},
			new:      &CloudConfig{ChargerType: types.ChargerTypeDummy, Address: "a", VIN: "v"},
			expected: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CloudConfigNeedsChargerSetup(tt.old, tt.new))
		})
	}
}
