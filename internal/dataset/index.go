package dataset

import (
	"sort"
)

// AdvisoryByCountry maps a country key to its single advisory.
type AdvisoryByCountry map[string]Advisory

// VisaByCountry maps a destination country key to the rule that applies
// for travellers from one selected origin.
type VisaByCountry map[string]VisaRule

// KeyResolver maps a country name or ISO code to the key of an existing
// country mesh.
type KeyResolver interface {
	ResolveKey(nameOrCode string) (string, bool)
}

// JoinReport accounts for every record offered to an index.
// Matched + len(Unmatched) + len(Duplicates) equals the number of records considered.
type JoinReport struct {
	Unmatched  []string `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
	Duplicates []string `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Matched    int      `json:"matched" yaml:"matched"`
}

// IndexAdvisories keys advisories by mesh key, trying the country name
// first and the country code second. When two advisories land on one key
// the most recently updated wins and the other is reported as a duplicate.
func IndexAdvisories(records []Advisory, keys KeyResolver) (AdvisoryByCountry, JoinReport) {
	out := make(AdvisoryByCountry, len(records))
	var report JoinReport

	for _, a := range records {
		key, ok := keys.ResolveKey(a.CountryName)
		if !ok && a.CountryCode != "" {
			key, ok = keys.ResolveKey(a.CountryCode)
		}
		if !ok {
			report.Unmatched = append(report.Unmatched, a.CountryName)
			continue
		}

		prev, exists := out[key]
		if !exists {
			out[key] = a
			report.Matched++
			continue
		}

		if a.UpdatedAt.After(prev.UpdatedAt) {
			out[key] = a
			report.Duplicates = append(report.Duplicates, prev.CountryName)
		} else {
			report.Duplicates = append(report.Duplicates, a.CountryName)
		}
	}

	sort.Strings(report.Unmatched)
	sort.Strings(report.Duplicates)
	return out, report
}

// IndexVisa keys the rules whose origin resolves to fromKey by destination.
// Rules from other origins are not counted in the report. An empty fromKey
// yields an empty index.
func IndexVisa(rules []VisaRule, fromKey string, keys KeyResolver) (VisaByCountry, JoinReport) {
	out := make(VisaByCountry)
	var report JoinReport
	if fromKey == "" {
		return out, report
	}

	for _, r := range rules {
		from, ok := keys.ResolveKey(r.FromCountry)
		if !ok || from != fromKey {
			continue
		}

		to, ok := keys.ResolveKey(r.ToCountry)
		if !ok {
			report.Unmatched = append(report.Unmatched, r.ToCountry)
			continue
		}
		if _, exists := out[to]; exists {
			report.Duplicates = append(report.Duplicates, r.ToCountry)
			continue
		}

		out[to] = r
		report.Matched++
	}

	sort.Strings(report.Unmatched)
	sort.Strings(report.Duplicates)
	return out, report
}
