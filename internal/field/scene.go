package field

// Scene bundles the editable field state the bridge server manages on behalf
// of a host: grid configuration plus the obstacle set. GridSize is the
// world-units-per-grid-unit factor used as DefSize for shots fired in the
// scene.
type Scene struct {
	GridSize  float64    `json:"gridSize"`
	Walls     []Wall     `json:"walls"`
	Occupants []Occupant `json:"occupants"`
}

// Clone returns a deep copy so callers may mutate the result safely.
func (s Scene) Clone() Scene {
	cloned := Scene{GridSize: s.GridSize}
	if len(s.Walls) > 0 {
		cloned.Walls = append([]Wall(nil), s.Walls...)
	}
	if len(s.Occupants) > 0 {
		cloned.Occupants = append([]Occupant(nil), s.Occupants...)
	}
	return cloned
}
