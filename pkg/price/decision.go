package price

import (
	"time"
)

// Decision tells the caller what to do with the charger on this tick.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionStart
	DecisionStop
)

func (d Decision) String() string {
	switch d {
	case DecisionStart:
		return "start"
	case DecisionStop:
		return "stop"
	}
	return "none"
}

// Context is the device state the decision depends on. The caller
// rebuilds it on every tick; nothing is retained between calls except
// WasOnDueToPrice which the caller persists after actuation.
type Context struct {
	EnableLowPrice      bool
	BatteryLevel        *float64
	LowBatteryThreshold *float64
	ManualOverride      bool
	WasOnDueToPrice     bool
}

// Decide is the charging state transition. Rules in priority order:
// feature disabled, low battery and manual override all leave the
// charger alone. Inside a cheap interval we start. Outside one we only
// stop if we were the ones who started.
func Decide(cheapest []Interval, now time.Time, c Context) Decision {
	if !c.EnableLowPrice {
		return DecisionNone
	}

	if c.lowBattery() {
		// never stop a low battery from charging, just withhold the
		// price automation and let the vehicle handle it.
		return DecisionNone
	}

	if c.ManualOverride {
		return DecisionNone
	}

	for _, iv := range cheapest {
		if iv.Contains(now) {
			return DecisionStart
		}
	}

	if c.WasOnDueToPrice {
		return DecisionStop
	}
	return DecisionNone
}

// lowBattery is only true when both threshold and level are known and
// the threshold is positive. A threshold of zero disables the guard.
func (c Context) lowBattery() bool {
	if c.BatteryLevel == nil || c.LowBatteryThreshold == nil {
		return false
	}
	if *c.LowBatteryThreshold <= 0 {
		return false
	}
	return *c.BatteryLevel < *c.LowBatteryThreshold
}
