// Package dataset defines the domain records joined onto the globe and the
// per-country indexes built from them.
package dataset

import (
	"strings"
	"time"
)

// Advisory is a travel advisory for one country. Level runs from 1 (normal
// precautions) to 4 (do not travel).
type Advisory struct {
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
	CountryName string    `json:"countryName" yaml:"countryName"`
	CountryCode string    `json:"countryCode" yaml:"countryCode"`
	Summary     string    `json:"summary" yaml:"summary"`
	Level       int       `json:"level" yaml:"level"`
}

// Requirement is the kind of entry permission a visa rule grants.
type Requirement string

// Known requirement types, ordered from most to least permissive.
const (
	VisaFree      Requirement = "visa-free"
	VisaOnArrival Requirement = "visa-on-arrival"
	EVisa         Requirement = "evisa"
	VisaRequired  Requirement = "visa-required"
)

// ParseRequirement accepts the canonical values plus common spellings
// ("Visa Free", "visa_on_arrival", "e-visa", "eta").
func ParseRequirement(s string) (Requirement, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("_", "-", " ", "-").Replace(k)

	switch k {
	case "visa-free", "free", "none", "not-required", "visa-not-required":
		return VisaFree, true
	case "visa-on-arrival", "on-arrival", "voa":
		return VisaOnArrival, true
	case "evisa", "e-visa", "eta", "electronic-visa":
		return EVisa, true
	case "visa-required", "required":
		return VisaRequired, true
	}
	return "", false
}

// UnmarshalText lets JSON and YAML decoding accept every spelling ParseRequirement knows.
// Unknown values are kept verbatim and render as "no data".
func (r *Requirement) UnmarshalText(b []byte) error {
	if v, ok := ParseRequirement(string(b)); ok {
		*r = v
		return nil
	}
	*r = Requirement(strings.TrimSpace(string(b)))
	return nil
}

// VisaRule describes entry rules for citizens of FromCountry visiting ToCountry.
type VisaRule struct {
	FromCountry     string      `json:"fromCountry" yaml:"fromCountry"`
	ToCountry       string      `json:"toCountry" yaml:"toCountry"`
	RequirementType Requirement `json:"requirementType" yaml:"requirementType"`
	Duration        string      `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// Airport is a geocoded airport marker.
type Airport struct {
	Name    string  `json:"name" yaml:"name"`
	Code    string  `json:"code" yaml:"code"`
	City    string  `json:"city" yaml:"city"`
	Country string  `json:"country" yaml:"country"`
	Lat     float64 `json:"lat" yaml:"lat"`
	Lng     float64 `json:"lng" yaml:"lng"`
}

// Restaurant is a geocoded starred restaurant. Stars runs from 1 to 3.
type Restaurant struct {
	Name    string  `json:"name" yaml:"name"`
	City    string  `json:"city" yaml:"city"`
	Country string  `json:"country" yaml:"country"`
	Cuisine string  `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
	Chef    string  `json:"chef,omitempty" yaml:"chef,omitempty"`
	Lat     float64 `json:"lat" yaml:"lat"`
	Lng     float64 `json:"lng" yaml:"lng"`
	Stars   int     `json:"stars" yaml:"stars"`
}

// Country is reference data for one country.
type Country struct {
	Name    string `json:"name" yaml:"name"`
	Code    string `json:"code" yaml:"code"`
	Capital string `json:"capital,omitempty" yaml:"capital,omitempty"`
	Region  string `json:"region,omitempty" yaml:"region,omitempty"`
}

// Records is everything the host supplies for one render pass.
type Records struct {
	Advisories  []Advisory   `json:"advisories" yaml:"advisories"`
	VisaRules   []VisaRule   `json:"visaRules" yaml:"visaRules"`
	Airports    []Airport    `json:"airports" yaml:"airports"`
	Restaurants []Restaurant `json:"restaurants" yaml:"restaurants"`
	Countries   []Country    `json:"countries" yaml:"countries"`
}
