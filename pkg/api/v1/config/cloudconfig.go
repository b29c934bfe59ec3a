package config

import (
	"time"

	"github.com/nergy-se/evcharge/pkg/api/v1/types"
	"github.com/nergy-se/evcharge/pkg/price"
)

type CloudConfig struct {
	ControllerId string `json:"controllerId"`

	ChargerType types.ChargerType `json:"chargerType"`
	Address     string            `json:"address"`
	VIN         string            `json:"vin"`

	// EnableLowPrice is the master switch for price based charging.
	EnableLowPrice bool `json:"enableLowPrice"`

	// CheapIntervals how many intervals per day we try to charge during.
	CheapIntervals int `json:"cheapIntervals"`

	// SelectionMode cheapest (default) or contiguous.
	SelectionMode price.Mode `json:"selectionMode"`

	// LowBatteryThreshold percent below which price automation backs off.
	LowBatteryThreshold *float64 `json:"lowBatteryThreshold"`

	ManualOverrideMinutes int64 `json:"manualOverrideMinutes"`

	// MainFuseAmps if not 0 we withhold charge starts while any phase
	// carries more than this.
	MainFuseAmps float64 `json:"mainFuseAmps"`

	// MaxChargeCurrent amps written to the wallbox setpoint on start.
	// 0 leaves the wallbox default untouched.
	MaxChargeCurrent float64 `json:"maxChargeCurrent"`

	Locale   string `json:"locale"`
	Timezone string `json:"timezone"`

	Meters []Meter `json:"meters,omitempty"`
}

type Meter struct {
	InterfaceType string `json:"interfaceType"`
	Model         string `json:"model"`
	PrimaryID     string `json:"primaryId"`
	Device        string `json:"device,omitempty"`
}

func (c *CloudConfig) Mode() price.Mode {
	if c.SelectionMode == price.ModeContiguous {
		return price.ModeContiguous
	}
	return price.ModeCheapest
}

func (c *CloudConfig) OverrideDuration() time.Duration {
	if c.ManualOverrideMinutes <= 0 {
		return 3 * time.Hour
	}
	return time.Duration(c.ManualOverrideMinutes) * time.Minute
}

func CloudConfigNeedsChargerSetup(old *CloudConfig, new *CloudConfig) bool {

	if old == nil {
		return true
	}
	if old.ChargerType != new.ChargerType {
		return true
	}
	if old.Address != new.Address {
		return true
	}
	if old.VIN != new.VIN {
		return true
	}
	return false
}
