package spectra

// Component is a chemical property that reference values are recorded for.
// Abbrev and Unit are for display only.
type Component struct {
	Name   string `json:"name"   yaml:"name"`
	Abbrev string `json:"abbrev" yaml:"abbrev,omitempty"`
	Unit   string `json:"unit"   yaml:"unit,omitempty"`
}

// Label returns "Name (Unit)", or just the name when no unit is set.
func (c Component) Label() string {
	if c.Unit == "" {
		return c.Name
	}
	return c.Name + " (" + c.Unit + ")"
}
