package dummy

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync"

	"github.com/nergy-se/evcharge/pkg/state"
	"github.com/sirupsen/logrus"
)

// Dummy pretends to be a plugged in vehicle. Battery level can be moved
// around over HTTP for bring-up and manual testing.
type Dummy struct {
	batteryLevel float64
	pluggedIn    bool
	charging     bool
	sync.Mutex
}

func New() *Dummy {
	dummy := &Dummy{
		batteryLevel: 50,
		pluggedIn:    true,
	}
	http.HandleFunc("/battery", func(w http.ResponseWriter, req *http.Request) {
		lvl := req.URL.Query().Get("level")
		if lvl == "" {
			dummy.Lock()
			fmt.Fprintf(w, "battery level: %.0f\n", dummy.batteryLevel)
			dummy.Unlock()
			return
		}
		f, err := strconv.ParseFloat(lvl, 64)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.Infof("setting battery level %s", lvl)
		dummy.Lock()
		dummy.batteryLevel = f
		dummy.Unlock()
		fmt.Fprintf(w, "battery level set to %s\n", lvl)
	})
	http.HandleFunc("/unplug", func(w http.ResponseWriter, req *http.Request) {
		dummy.Lock()
		dummy.pluggedIn = false
		dummy.charging = false
		dummy.Unlock()
		fmt.Fprintf(w, "unplugged\n")
	})
	http.HandleFunc("/plug", func(w http.ResponseWriter, req *http.Request) {
		dummy.Lock()
		dummy.pluggedIn = true
		dummy.Unlock()
		fmt.Fprintf(w, "plugged in\n")
	})

	go func() {
		err := http.ListenAndServe(":8888", nil)
		if err != nil {
			logrus.Error(err)
		}
	}()

	return dummy
}

func Pointer[K any](val K) *K {
	return &val
}

func (d *Dummy) State() (*state.State, error) {
	d.Lock()
	defer d.Unlock()

	s := &state.State{
		BatteryLevel: Pointer(d.batteryLevel),
		ChargeLimit:  Pointer(80.0),
		RangeKm:      Pointer(d.batteryLevel * 4.2),
		Charging:     Pointer(d.charging),
		PluggedIn:    Pointer(d.pluggedIn),
	}
	if d.charging {
		s.ChargerPower = Pointer(float64(rand.Intn(11000-3000) + 3000))
		s.ChargerAmps = Pointer(16.0)
	}
	return s, nil
}

func (d *Dummy) StartCharging() error {
	d.Lock()
	defer d.Unlock()
	if !d.pluggedIn {
		return fmt.Errorf("cannot charge while unplugged")
	}
	d.charging = true
	return nil
}

func (d *Dummy) StopCharging() error {
	d.Lock()
	defer d.Unlock()
	d.charging = false
	return nil
}
