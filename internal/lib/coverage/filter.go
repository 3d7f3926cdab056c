package coverage

// FilterState holds the four independent allow-lists a caller can apply to
// observations. An empty list means no filtering on that dimension. A point
// passes iff every dimension passes (AND across dimensions, membership within
// a dimension).
type FilterState struct {
	Countries   []string `json:"countries,omitempty"`
	DeviceTypes []string `json:"device_types,omitempty"`
	Operators   []string `json:"operators,omitempty"`
	Statuses    []string `json:"statuses,omitempty"`
}

// IsEmpty reports whether no dimension imposes any restriction.
func (f FilterState) IsEmpty() bool {
	return len(f.Countries) == 0 && len(f.DeviceTypes) == 0 &&
		len(f.Operators) == 0 && len(f.Statuses) == 0
}

// Matches reports whether the observation passes all four filter dimensions.
func (f FilterState) Matches(p *Point) bool {
	return matchDimension(f.Countries, p.Country) &&
		matchDimension(f.DeviceTypes, p.DeviceType) &&
		matchDimension(f.Operators, p.Operator) &&
		matchDimension(f.Statuses, p.Status)
}

func matchDimension(allowed []string, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
