package refresh

import (
	"encoding/json"
	"sort"
	"strings"
)

// The country catalog is served in more than one schema generation; the
// flexible field types below absorb the known shape variants instead of
// failing the whole payload on one odd entry.

// UpstreamCountry is one raw entry from the country catalog.
type UpstreamCountry struct {
	Name       NameField       `json:"name"`
	Capital    CapitalField    `json:"capital"`
	Region     string          `json:"region"`
	Population PopulationField `json:"population"`
	Flag       string          `json:"flag"`
	Flags      FlagsField      `json:"flags"`
	Currencies CurrenciesField `json:"currencies"`
}

// NameField accepts either a plain string or an object carrying "common".
type NameField struct {
	Value string
}

func (f *NameField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Value = s
		return nil
	}
	var obj struct {
		Common string `json:"common"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		f.Value = obj.Common
	}
	return nil
}

// CapitalField accepts either a plain string or a sequence (first element wins).
type CapitalField struct {
	Value string
}

func (f *CapitalField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Value = s
		return nil
	}
	var seq []string
	if err := json.Unmarshal(data, &seq); err == nil && len(seq) > 0 {
		f.Value = seq[0]
	}
	return nil
}

// PopulationField tolerates missing or non-numeric values by degrading to 0.
type PopulationField struct {
	Value int64
}

func (f *PopulationField) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			f.Value = i
		} else if fl, err := n.Float64(); err == nil {
			f.Value = int64(fl)
		}
	}
	return nil
}

// FlagsField extracts the PNG URL from the nested flags object.
type FlagsField struct {
	PNG string
}

func (f *FlagsField) UnmarshalJSON(data []byte) error {
	var obj struct {
		PNG string `json:"png"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		f.PNG = obj.PNG
	}
	return nil
}

// CurrenciesField accepts either a sequence of currency objects or a mapping
// of code to object. In map form the lexicographically first key is taken so
// the result is deterministic; the object's own code wins over the key.
type CurrenciesField struct {
	Code string
}

func (f *CurrenciesField) UnmarshalJSON(data []byte) error {
	type currency struct {
		Code string `json:"code"`
	}

	var seq []currency
	if err := json.Unmarshal(data, &seq); err == nil {
		if len(seq) > 0 {
			f.Code = seq[0].Code
		}
		return nil
	}

	var byCode map[string]currency
	if err := json.Unmarshal(data, &byCode); err == nil && len(byCode) > 0 {
		keys := make([]string, 0, len(byCode))
		for key := range byCode {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		first := keys[0]
		if byCode[first].Code != "" {
			f.Code = byCode[first].Code
		} else {
			f.Code = first
		}
	}
	return nil
}

// Normalized is the canonical record derived from one upstream entry.
type Normalized struct {
	Name         string
	Capital      *string
	Region       *string
	Population   int64
	CurrencyCode *string
	FlagURL      *string
}

// Normalize maps an upstream entry to its canonical form. ok is false when no
// name is resolvable; such entries are excluded from the pass, not errors.
func Normalize(entry UpstreamCountry) (Normalized, bool) {
	name := strings.TrimSpace(entry.Name.Value)
	if name == "" {
		return Normalized{}, false
	}

	record := Normalized{
		Name:       name,
		Population: entry.Population.Value,
	}
	if capital := strings.TrimSpace(entry.Capital.Value); capital != "" {
		record.Capital = &capital
	}
	if region := strings.TrimSpace(entry.Region); region != "" {
		record.Region = &region
	}
	if code := strings.TrimSpace(entry.Currencies.Code); code != "" {
		record.CurrencyCode = &code
	}
	if flag := firstNonEmpty(entry.Flags.PNG, entry.Flag); flag != "" {
		record.FlagURL = &flag
	}
	return record, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
