package charger

import (
	"github.com/nergy-se/evcharge/pkg/state"
)

// Controller is the thing that actually starts and stops a charge: a
// vehicle cloud API or a wallbox on the local network.
type Controller interface {
	StartCharging() error
	StopCharging() error

	// fetch state. Used for metrics to cloud and for the battery guard.
	State() (*state.State, error)
}

func Scale10itof(i int, err error) (*float64, error) {
	f := float64(i) / 10.0
	return &f, err
}

func Scale100itof(i int, err error) (*float64, error) {
	f := float64(i) / 100.0
	return &f, err
}
