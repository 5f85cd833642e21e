package colorize

import (
	"fmt"
	"strings"
)

// View is the dataset currently projected onto the globe.
type View uint8

const (
	ViewAdvisories View = iota
	ViewVisa
	ViewMichelin
	ViewAirports
)

var viewNames = [...]string{
	ViewAdvisories: "advisories",
	ViewVisa:       "visa",
	ViewMichelin:   "michelin",
	ViewAirports:   "airports",
}

func (v View) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return fmt.Sprintf("view(%d)", uint8(v))
}

// Choropleth reports whether countries carry the data in this view.
// In the other views countries are a neutral backdrop for point markers.
func (v View) Choropleth() bool {
	return v == ViewAdvisories || v == ViewVisa
}

// ParseView accepts a view name case-insensitively.
func ParseView(s string) (View, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	for i, name := range viewNames {
		if name == k {
			return View(i), nil
		}
	}
	return 0, fmt.Errorf("unknown view %q", s)
}

func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *View) UnmarshalText(b []byte) error {
	p, err := ParseView(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}
