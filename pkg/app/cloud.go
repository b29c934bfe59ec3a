package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nergy-se/evcharge/pkg/api/v1/config"
	"github.com/nergy-se/evcharge/pkg/api/v1/meter"
	"github.com/nergy-se/evcharge/pkg/price"
	"github.com/nergy-se/evcharge/pkg/state"
	"github.com/nergy-se/evcharge/pkg/version"
)

// register trades the hardware serial for an api token on first boot.
func (a *App) register() error {
	if a.config.Token() != "" {
		return nil
	}
	err := a.config.LoadSerial()
	if err != nil {
		return err
	}

	payload := struct {
		Serial string `json:"serial"`
	}{Serial: a.config.SerialID()}
	b, err := json.Marshal(&payload)
	if err != nil {
		return err
	}
	req, err := a.newRequest("POST", "/api/charger/register-v1", bytes.NewReader(b))
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("error registering StatusCode: %d", resp.StatusCode)
	}

	response := struct {
		Token string `json:"token"`
	}{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	if err != nil {
		return err
	}
	a.config.SetToken(response.Token)
	return a.config.PersistToken()
}

func (a *App) fetchConfig() (*config.CloudConfig, error) {
	response := &config.CloudConfig{}
	err := a.get("/api/charger/config-v1", response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (a *App) fetchSchedule() (price.Schedule, error) {
	response := price.Schedule{}
	err := a.get("/api/charger/schedule-v1", &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

type metricsPayload struct {
	Time     time.Time              `json:"time"`
	Decision string                 `json:"decision"`
	Display  string                 `json:"display"`
	State    map[string]interface{} `json:"state,omitempty"`
	Meter    *meter.Data            `json:"meter,omitempty"`
	Alarms   []string               `json:"alarms,omitempty"`
}

func (a *App) sendMetrics(chState *state.State, decision price.Decision, display string) error {
	payload := &metricsPayload{
		Time:     time.Now(),
		Decision: decision.String(),
		Display:  display,
		Meter:    a.meterCache.Get(),
		Alarms:   a.alarms.Active(),
	}
	if chState != nil {
		payload.State = chState.Map()
	}
	return a.post("/api/charger/metrics-v1", payload)
}

// sendAlarms reports the full active set whenever it changed.
func (a *App) sendAlarms() error {
	payload := struct {
		Time   time.Time `json:"time"`
		Alarms []string  `json:"alarms"`
	}{
		Time:   time.Now(),
		Alarms: a.alarms.Active(),
	}
	return a.post("/api/charger/alarms-v1", &payload)
}

func (a *App) get(path string, response interface{}) error {
	req, err := a.newRequest("GET", path, nil)
	if err != nil {
		return err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("error fetching %s StatusCode: %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(response)
}

func (a *App) post(path string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := a.newRequest("POST", path, bytes.NewReader(b))
	if err != nil {
		return err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("error posting %s StatusCode: %d", path, resp.StatusCode)
	}
	return nil
}

func (a *App) newRequest(method, path string, body *bytes.Reader) (*http.Request, error) {
	u := a.config.Server + path
	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequest(method, u, nil)
	} else {
		req, err = http.NewRequest(method, u, body)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Add("Authorization", a.config.Token())
	req.Header.Add("User-Agent", "evcharge "+version.Version)
	return req, nil
}
