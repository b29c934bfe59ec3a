package meter

import "time"

type Data struct {
	Id        string    `json:"id"`
	Model     string    `json:"model"`
	Time      time.Time `json:"time"`
	Current_W float64   `json:"w,omitempty"`
	Total_WH  float64   `json:"wh,omitempty"`
	L1_A      float64   `json:"l1_a,omitempty"`
	L2_A      float64   `json:"l2_a,omitempty"`
	L3_A      float64   `json:"l3_a,omitempty"`
	L1_V      float64   `json:"l1_v,omitempty"`
	L2_V      float64   `json:"l2_v,omitempty"`
	L3_V      float64   `json:"l3_v,omitempty"`
}

// MaxPhaseAmps returns the most loaded phase. Used by the main fuse
// guard before starting a charge.
func (d *Data) MaxPhaseAmps() float64 {
	max := d.L1_A
	if d.L2_A > max {
		max = d.L2_A
	}
	if d.L3_A > max {
		max = d.L3_A
	}
	return max
}
