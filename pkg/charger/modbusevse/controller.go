package modbusevse

import (
	"github.com/nergy-se/evcharge/pkg/charger"
	"github.com/nergy-se/evcharge/pkg/modbusclient"
	"github.com/nergy-se/evcharge/pkg/state"
	"github.com/sirupsen/logrus"
)

// vehicle state register values per IEC 61851.
const (
	evStateIdle      = 1 // A no vehicle
	evStateConnected = 2 // B connected, not charging
	evStateCharging  = 3 // C charging
)

type Evse struct {
	client     modbusclient.Client
	readonly   bool
	maxCurrent float64

	chargingAllowed bool
}

func New(client modbusclient.Client, readonly bool, maxCurrent float64) *Evse {
	return &Evse{
		client:     client,
		readonly:   readonly,
		maxCurrent: maxCurrent,
	}
}

func (e *Evse) State() (*state.State, error) {
	s := &state.State{}
	var err error

	evState, err := e.client.ReadInputRegister(1002) // 1002 vehicle state A/B/C
	if err != nil {
		return s, err
	}
	s.PluggedIn = boolPointer(evState >= evStateConnected)
	s.Charging = boolPointer(evState == evStateCharging)

	s.ChargerAmps, err = charger.Scale10itof(e.client.ReadInputRegister(1006)) // 1006 actual charge current scale 10
	if err != nil {
		return s, err
	}

	power, err := e.client.ReadInputRegister(1020) // 1020 active power W
	if err != nil {
		return s, err
	}
	s.ChargerPower = floatPointer(float64(power))

	// the wallbox does not know the battery, that comes from the
	// vehicle side if at all.
	s.ChargingAllowed = boolPointer(e.chargingAllowed)
	return s, nil
}

func (e *Evse) StartCharging() error {
	if e.maxCurrent > 0 && !e.readonly {
		_, err := e.client.WriteSingleRegister(1000, uint16(e.maxCurrent*10)) // 1000 charge current setpoint scale 10
		if err != nil {
			return err
		}
	}
	return e.allowCharging(true)
}

func (e *Evse) StopCharging() error {
	return e.allowCharging(false)
}

func (e *Evse) allowCharging(b bool) error {
	logrus.WithFields(logrus.Fields{"allow": b}).Debugf("modbusevse: allowCharging")
	if e.readonly {
		return nil
	}
	_, err := e.client.WriteSingleCoil(400, modbusclient.CoilValue(b)) // coil 400 charging enable
	if err != nil {
		return err
	}
	e.chargingAllowed = b
	return nil
}

func boolPointer(b bool) *bool {
	return &b
}

func floatPointer(f float64) *float64 {
	return &f
}
