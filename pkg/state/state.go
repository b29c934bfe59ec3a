package state

// State is a snapshot of the vehicle and charger, read each tick and
// reported as metrics to cloud. Unknown values stay nil.
type State struct {
	BatteryLevel *float64 `json:"batteryLevel,omitempty"`
	ChargeLimit  *float64 `json:"chargeLimit,omitempty"`
	RangeKm      *float64 `json:"rangeKm,omitempty"`
	Charging     *bool    `json:"charging,omitempty"`
	PluggedIn    *bool    `json:"pluggedIn,omitempty"`
	ChargerPower *float64 `json:"chargerPower,omitempty"`
	ChargerAmps  *float64 `json:"chargerAmps,omitempty"`

	ChargingAllowed *bool `json:"chargingAllowed,omitempty"`
}

func (s State) Map() map[string]interface{} {
	m := make(map[string]interface{})
	if s.BatteryLevel != nil {
		m["batteryLevel"] = *s.BatteryLevel
	}
	if s.ChargeLimit != nil {
		m["chargeLimit"] = *s.ChargeLimit
	}
	if s.RangeKm != nil {
		m["rangeKm"] = *s.RangeKm
	}
	if s.Charging != nil {
		m["charging"] = boolToInt(*s.Charging)
	}
	if s.PluggedIn != nil {
		m["pluggedIn"] = boolToInt(*s.PluggedIn)
	}
	if s.ChargerPower != nil {
		m["chargerPower"] = *s.ChargerPower
	}
	if s.ChargerAmps != nil {
		m["chargerAmps"] = *s.ChargerAmps
	}
	if s.ChargingAllowed != nil {
		m["chargingAllowed"] = boolToInt(*s.ChargingAllowed)
	}

	return m
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
