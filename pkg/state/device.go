package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type deviceData struct {
	ChargingDueToPrice bool       `json:"chargingDueToPrice"`
	ManualOverrideAt   *time.Time `json:"manualOverrideAt,omitempty"`
}

// Device is the part of controller state that must survive restarts:
// whether we are the reason charging is on, and when the user last took
// manual control.
type Device struct {
	path string
	data deviceData

	overrideLogged bool

	mutex sync.RWMutex
}

// Load reads persisted device state. A missing file is a fresh device,
// not an error.
func Load(path string) (*Device, error) {
	d := &Device{path: path}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return d, nil
	}
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(b, &d.data)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) save() error {
	if d.path == "" {
		return nil
	}
	err := os.MkdirAll(filepath.Dir(d.path), 0755)
	if err != nil {
		return err
	}
	b, err := json.Marshal(&d.data)
	if err != nil {
		return err
	}
	return os.WriteFile(d.path, b, 0644)
}

func (d *Device) DueToPrice() bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.data.ChargingDueToPrice
}

// SetDueToPrice records whether charging is on because of us. Called
// after the actuation succeeded, never before.
func (d *Device) SetDueToPrice(b bool) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.data.ChargingDueToPrice = b
	return d.save()
}

// ArmOverride records a manual takeover at t.
func (d *Device) ArmOverride(t time.Time) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.data.ManualOverrideAt = &t
	d.overrideLogged = false
	return d.save()
}

// OverrideActive reports whether a manual override armed within
// duration is still in effect. The expiry transition is logged once.
func (d *Device) OverrideActive(now time.Time, duration time.Duration) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.data.ManualOverrideAt == nil {
		return false
	}
	if now.Sub(*d.data.ManualOverrideAt) < duration {
		return true
	}
	if !d.overrideLogged {
		logrus.WithFields(logrus.Fields{
			"armedAt":  d.data.ManualOverrideAt,
			"duration": duration,
		}).Info("manual override expired")
		d.overrideLogged = true
	}
	return false
}
