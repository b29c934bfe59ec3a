package mqtt

import (
	"time"

	"github.com/nergy-se/evcharge/pkg/api/v1/meter"
)

// P1ib is the subset of the p1ib energy meter mqtt payload we care
// about. Power values are kW, currents A, voltages V.
type P1ib struct {
	ActivePowerPlus  float64 `json:"p1ib_active_power_plus_q1_q4"`
	ActivePowerMinus float64 `json:"p1ib_active_power_minus_q2_q3"`
	ImportExport     float64 `json:"p1ib_import_export"`
	VoltageL1        float64 `json:"p1ib_voltage_l1"`
	VoltageL2        float64 `json:"p1ib_voltage_l2"`
	VoltageL3        float64 `json:"p1ib_voltage_l3"`
	CurrentL1        float64 `json:"p1ib_current_l1"`
	CurrentL2        float64 `json:"p1ib_current_l2"`
	CurrentL3        float64 `json:"p1ib_current_l3"`
	Meter            string  `json:"p1ib_meter"`
}

func (p *P1ib) Data(id string) *meter.Data {
	return &meter.Data{
		Id:        id,
		Model:     "p1ib",
		Time:      time.Now(),
		Current_W: p.ImportExport * 1000,
		L1_A:      p.CurrentL1,
		L2_A:      p.CurrentL2,
		L3_A:      p.CurrentL3,
		L1_V:      p.VoltageL1,
		L2_V:      p.VoltageL2,
		L3_V:      p.VoltageL3,
	}
}
