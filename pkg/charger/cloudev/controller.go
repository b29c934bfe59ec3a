package cloudev

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nergy-se/evcharge/pkg/state"
	"github.com/sirupsen/logrus"
)

const milesToKm = 1.609344

var httpClient = &http.Client{
	Timeout: time.Second * 30,
}

// CloudEV talks to the vehicle vendors cloud API. Slow and sometimes
// asleep, so callers should treat errors as transient.
type CloudEV struct {
	server string
	token  string
	vin    string
}

func New(server, token, vin string) *CloudEV {
	return &CloudEV{
		server: server,
		token:  token,
		vin:    vin,
	}
}

type chargeState struct {
	BatteryLevel         *float64 `json:"battery_level"`
	ChargeLimitSoc       *float64 `json:"charge_limit_soc"`
	BatteryRange         *float64 `json:"battery_range"` // miles
	ChargingState        string   `json:"charging_state"`
	ChargerPower         *float64 `json:"charger_power"` // kW
	ChargerActualCurrent *float64 `json:"charger_actual_current"`
}

type vehicleDataResponse struct {
	Response struct {
		ChargeState chargeState `json:"charge_state"`
	} `json:"response"`
}

type commandResponse struct {
	Response struct {
		Result bool   `json:"result"`
		Reason string `json:"reason"`
	} `json:"response"`
}

func (c *CloudEV) State() (*state.State, error) {
	u := fmt.Sprintf("%s/api/1/vehicles/%s/vehicle_data", c.server, c.vin)
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+c.token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("error fetching vehicle data StatusCode: %d", resp.StatusCode)
	}

	data := &vehicleDataResponse{}
	err = json.NewDecoder(resp.Body).Decode(data)
	if err != nil {
		return nil, err
	}

	cs := data.Response.ChargeState
	s := &state.State{
		BatteryLevel: cs.BatteryLevel,
		ChargeLimit:  cs.ChargeLimitSoc,
		ChargerPower: kwToW(cs.ChargerPower),
		ChargerAmps:  cs.ChargerActualCurrent,
		Charging:     boolPointer(cs.ChargingState == "Charging"),
		PluggedIn:    boolPointer(cs.ChargingState != "Disconnected"),
	}
	if cs.BatteryRange != nil {
		km := *cs.BatteryRange * milesToKm
		s.RangeKm = &km
	}
	return s, nil
}

func (c *CloudEV) StartCharging() error {
	// already charging is fine, the vehicle just tells us so.
	return c.command("charge_start", "is_charging", "charging")
}

func (c *CloudEV) StopCharging() error {
	return c.command("charge_stop", "not_charging")
}

func (c *CloudEV) command(name string, okReasons ...string) error {
	u := fmt.Sprintf("%s/api/1/vehicles/%s/command/%s", c.server, c.vin, name)
	req, err := http.NewRequest("POST", u, bytes.NewReader(nil))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+c.token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("error sending %s StatusCode: %d", name, resp.StatusCode)
	}

	cmd := &commandResponse{}
	err = json.NewDecoder(resp.Body).Decode(cmd)
	if err != nil {
		return err
	}
	if cmd.Response.Result {
		return nil
	}
	for _, reason := range okReasons {
		if cmd.Response.Reason == reason {
			logrus.WithFields(logrus.Fields{"command": name, "reason": cmd.Response.Reason}).Debug("cloudev: command was a noop")
			return nil
		}
	}
	return fmt.Errorf("error sending %s reason: %s", name, cmd.Response.Reason)
}

func kwToW(kw *float64) *float64 {
	if kw == nil {
		return nil
	}
	w := *kw * 1000
	return &w
}

func boolPointer(b bool) *bool {
	return &b
}
