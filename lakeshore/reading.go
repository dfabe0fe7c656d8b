package lakeshore

import "math"

// A Reading is one snapshot of the three probe channels, in whatever
// unit the instrument reports. Channel order is fixed: X, Y, Z.
type Reading struct {
	X float64 `json:"mx"`
	Y float64 `json:"my"`
	Z float64 `json:"mz"`
}

// Magnitude returns the vector magnitude of the three channels.
func (r Reading) Magnitude() float64 {
	return math.Sqrt(r.X*r.X + r.Y*r.Y + r.Z*r.Z)
}
