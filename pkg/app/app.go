package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/nergy-se/evcharge/pkg/alarm"
	"github.com/nergy-se/evcharge/pkg/api/v1/config"
	"github.com/nergy-se/evcharge/pkg/api/v1/meter"
	"github.com/nergy-se/evcharge/pkg/api/v1/types"
	"github.com/nergy-se/evcharge/pkg/charger"
	"github.com/nergy-se/evcharge/pkg/charger/cloudev"
	"github.com/nergy-se/evcharge/pkg/charger/dummy"
	"github.com/nergy-se/evcharge/pkg/charger/modbusevse"
	"github.com/nergy-se/evcharge/pkg/mbus"
	"github.com/nergy-se/evcharge/pkg/modbusclient"
	"github.com/nergy-se/evcharge/pkg/mqtt"
	"github.com/nergy-se/evcharge/pkg/price"
	"github.com/nergy-se/evcharge/pkg/state"
	"github.com/nergy-se/evcharge/pkg/web"
	"github.com/sirupsen/logrus"
)

var httpClient = &http.Client{
	Timeout: time.Second * 30,
}

// how stale meter data may be before the fuse guard ignores it.
const meterMaxAge = 5 * time.Minute

type App struct {
	wg     *sync.WaitGroup
	config *config.CliConfig

	cloudConfig *config.CloudConfig
	charger     charger.Controller
	schedule    price.Schedule
	device      *state.Device
	meterCache  *meter.Cache
	alarms      *alarm.ActiveAlarms
	mqtt        *mqttv2.Server
	mbus        *mbus.Mbus

	lastDecision price.Decision
	lastDisplay  string
	lastBattery  *float64
	lastCharging bool

	alarmsChanged bool

	ticks int

	mutex sync.RWMutex
}

func New(config *config.CliConfig) *App {
	return &App{
		wg:         &sync.WaitGroup{},
		config:     config,
		meterCache: &meter.Cache{},
		alarms:     &alarm.ActiveAlarms{},
	}
}

func (a *App) Start(ctx context.Context) error {
	device, err := state.Load(a.config.StateFile)
	if err != nil {
		return err
	}
	a.device = device

	err = a.register()
	if err != nil {
		return err
	}

	cloudConfig, err := a.fetchConfig()
	if err != nil {
		return err
	}

	err = a.setupCharger(cloudConfig)
	if err != nil {
		return err
	}

	server, err := mqtt.Start(ctx, a.wg, a.config.MQTTAddress, a.meterCache, a.armOverride)
	if err != nil {
		return err
	}
	a.mqtt = server

	web.New(a.config.WebAddress, a.status, a.armOverride).Start(ctx, a.wg)

	a.wg.Add(1)
	go a.controllerLoop(ctx)
	return nil
}

func (a *App) Wait() {
	a.wg.Wait()
}

func (a *App) controllerLoop(ctx context.Context) {
	defer a.wg.Done()
	a.refresh()
	a.reconcile(time.Now())
	delay := calculateNextDelay(time.Now())
	timer := time.NewTimer(delay)
	logrus.Debug("scheduling first run in", delay)
	for {
		select {
		case <-timer.C:
			timer.Reset(calculateNextDelay(time.Now()))
			a.refresh()
			a.reconcile(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

// refresh pulls schedule every tick and config once an hour. A failed
// fetch keeps the previous data so a flaky network does not stop the
// controller.
func (a *App) refresh() {
	a.mutex.Lock()
	tick := a.ticks
	a.ticks++
	a.mutex.Unlock()

	if tick%4 == 0 && tick != 0 {
		cloudConfig, err := a.fetchConfig()
		if err != nil {
			logrus.Error(err)
			a.alarm("config-fetch", true)
		} else {
			a.alarm("config-fetch", false)
			a.mutex.RLock()
			needsSetup := config.CloudConfigNeedsChargerSetup(a.cloudConfig, cloudConfig)
			a.mutex.RUnlock()
			if needsSetup {
				err = a.setupCharger(cloudConfig)
				if err != nil {
					logrus.Error(err)
				}
			} else {
				a.mutex.Lock()
				a.cloudConfig = cloudConfig
				a.mutex.Unlock()
			}
		}
	}

	schedule, err := a.fetchSchedule()
	if err != nil {
		logrus.Error(err)
		a.alarm("schedule-fetch", true)
	} else {
		a.alarm("schedule-fetch", false)
		a.mutex.Lock()
		a.schedule = schedule
		a.mutex.Unlock()
	}

	a.pollMeters()
}

func (a *App) pollMeters() {
	a.mutex.RLock()
	cloudConfig := a.cloudConfig
	a.mutex.RUnlock()
	if cloudConfig == nil {
		return
	}
	for _, m := range cloudConfig.Meters {
		if m.InterfaceType != "mbus" {
			continue // mqtt meters push to us instead.
		}
		if a.mbus == nil {
			a.mbus = mbus.New(m.Device)
		}
		data, err := a.mbus.ReadValues(m.Model, m.PrimaryID)
		if err != nil {
			logrus.Error(err)
			continue
		}
		a.meterCache.Set(data)
	}
}

// reconcile is one evaluation tick: pick the cheap intervals, run the
// decision and apply it to the charger.
func (a *App) reconcile(now time.Time) {
	a.mutex.RLock()
	cloudConfig := a.cloudConfig
	schedule := a.schedule
	a.mutex.RUnlock()
	if cloudConfig == nil {
		return
	}

	var cheapest []price.Interval
	if cloudConfig.Mode() == price.ModeContiguous {
		cheapest = price.CheapestContiguous(schedule, cloudConfig.CheapIntervals, now)
	} else {
		cheapest = price.Cheapest(schedule, cloudConfig.CheapIntervals, now)
	}

	chState, err := a.charger.State()
	if err != nil {
		logrus.Error(err)
		a.alarm("charger-offline", true)
	} else {
		a.alarm("charger-offline", false)
	}
	var battery *float64
	if chState != nil {
		battery = chState.BatteryLevel
	}

	charging := chState != nil && chState.Charging != nil && *chState.Charging
	a.mutex.RLock()
	wasCharging := a.lastCharging
	a.mutex.RUnlock()
	if charging && !wasCharging && !a.device.DueToPrice() {
		logrus.Info("charge started outside our control, treating it as a manual override")
		err := a.device.ArmOverride(now)
		if err != nil {
			logrus.Error(err)
		}
	}

	decisionContext := price.Context{
		EnableLowPrice:      cloudConfig.EnableLowPrice,
		BatteryLevel:        battery,
		LowBatteryThreshold: cloudConfig.LowBatteryThreshold,
		ManualOverride:      a.device.OverrideActive(now, cloudConfig.OverrideDuration()),
		WasOnDueToPrice:     a.device.DueToPrice(),
	}
	decision := price.Decide(cheapest, now, decisionContext)
	display := price.FormatWindows(cheapest, now, cloudConfig.Locale, cloudConfig.Timezone)

	logrus.WithFields(logrus.Fields{
		"decision": decision.String(),
		"windows":  display,
		"override": decisionContext.ManualOverride,
	}).Info("reconcile")

	switch decision {
	case price.DecisionStart:
		if a.startBlockedByFuse(now, cloudConfig) {
			logrus.Warn("withholding charge start, main fuse loaded")
			break
		}
		err := a.charger.StartCharging()
		if err != nil {
			logrus.Error(err)
			a.alarm("charger-command", true)
			break
		}
		a.alarm("charger-command", false)
		err = a.device.SetDueToPrice(true)
		if err != nil {
			logrus.Error(err)
		}
	case price.DecisionStop:
		err := a.charger.StopCharging()
		if err != nil {
			logrus.Error(err)
			a.alarm("charger-command", true)
			break
		}
		a.alarm("charger-command", false)
		err = a.device.SetDueToPrice(false)
		if err != nil {
			logrus.Error(err)
		}
	}

	a.mutex.Lock()
	a.lastDecision = decision
	a.lastDisplay = display
	a.lastBattery = battery
	a.lastCharging = charging
	changed := a.alarmsChanged
	a.alarmsChanged = false
	a.mutex.Unlock()

	if a.mqtt != nil {
		mqtt.PublishStatus(a.mqtt, a.status())
	}
	err = a.sendMetrics(chState, decision, display)
	if err != nil {
		logrus.Error(err)
	}
	if changed {
		err = a.sendAlarms()
		if err != nil {
			logrus.Error(err)
		}
	}
}

func (a *App) alarm(name string, active bool) {
	var changed bool
	if active {
		changed = a.alarms.Add(name)
	} else {
		changed = a.alarms.Remove(name)
	}
	if changed {
		a.mutex.Lock()
		a.alarmsChanged = true
		a.mutex.Unlock()
	}
}

func (a *App) startBlockedByFuse(now time.Time, cloudConfig *config.CloudConfig) bool {
	if cloudConfig.MainFuseAmps <= 0 {
		return false
	}
	data := a.meterCache.Fresh(now, meterMaxAge)
	if data == nil {
		return false
	}
	return data.MaxPhaseAmps() > cloudConfig.MainFuseAmps
}

func (a *App) armOverride() {
	err := a.device.ArmOverride(time.Now())
	if err != nil {
		logrus.Error(err)
	}
}

func (a *App) status() web.Status {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	override := false
	if a.cloudConfig != nil {
		override = a.device.OverrideActive(time.Now(), a.cloudConfig.OverrideDuration())
	}
	return web.Status{
		Display:  a.lastDisplay,
		Decision: a.lastDecision.String(),
		Charging: a.lastCharging,
		Battery:  a.lastBattery,
		Override: override,
	}
}

func (a *App) setupCharger(cloudConfig *config.CloudConfig) error {
	// local overrides for development against hardware on the bench.
	if a.config.ChargerType != "" {
		cloudConfig.ChargerType = types.ChargerType(a.config.ChargerType)
	}
	if a.config.Address != "" {
		cloudConfig.Address = a.config.Address
	}
	if a.config.VIN != "" {
		cloudConfig.VIN = a.config.VIN
	}

	var c charger.Controller
	switch cloudConfig.ChargerType {
	case types.ChargerTypeCloudEV:
		c = cloudev.New(cloudConfig.Address, a.config.Token(), cloudConfig.VIN)
	case types.ChargerTypeModbusEVSE:
		handler := modbus.NewTCPClientHandler(cloudConfig.Address)
		handler.Timeout = 10 * time.Second
		handler.SlaveId = 1
		c = modbusevse.New(modbusclient.New(modbus.NewClient(handler), handler.Close), false, cloudConfig.MaxChargeCurrent)
	case types.ChargerTypeDummy:
		c = dummy.New()
	default:
		c = dummy.New()
		logrus.Warnf("unknown charger type %s, using dummy", cloudConfig.ChargerType)
	}

	a.mutex.Lock()
	a.cloudConfig = cloudConfig
	a.charger = c
	a.mutex.Unlock()
	return nil
}
