package scoring

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type Category string

const (
	CategoryHematology   Category = "hematology"
	CategoryBiochemistry Category = "biochemistry"
	CategoryBloodGas     Category = "blood-gas"
	CategoryVitalSigns   Category = "vital-signs"
)

var categoryOrder = []Category{
	CategoryHematology,
	CategoryBiochemistry,
	CategoryBloodGas,
	CategoryVitalSigns,
}

type RangeEntry struct {
	Parameter string  `yaml:"parameter" json:"parameter"`
	Min       float64 `yaml:"min" json:"min"`
	Max       float64 `yaml:"max" json:"max"`
	Unit      string  `yaml:"unit" json:"unit"`
}

// Contains reports whether v lies within the inclusive normal range.
func (r RangeEntry) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

//go:embed ranges.yaml
var rangesYAML []byte

var (
	rangesOnce  sync.Once
	rangeTables map[Category][]RangeEntry
	rangesErr   error
)

func loadRanges() (map[Category][]RangeEntry, error) {
	rangesOnce.Do(func() {
		var tables map[Category][]RangeEntry
		if err := yaml.Unmarshal(rangesYAML, &tables); err != nil {
			rangesErr = fmt.Errorf("decoding reference ranges: %w", err)
			return
		}
		for _, c := range categoryOrder {
			if len(tables[c]) == 0 {
				rangesErr = fmt.Errorf("reference ranges: category %q is empty", c)
				return
			}
		}
		rangeTables = tables
	})
	return rangeTables, rangesErr
}

func Categories() []Category {
	return slices.Clone(categoryOrder)
}

// ReferenceRanges returns a copy of the normal values of one category.
func ReferenceRanges(c Category) ([]RangeEntry, error) {
	tables, err := loadRanges()
	if err != nil {
		return nil, err
	}
	entries, ok := tables[c]
	if !ok {
		return nil, ErrUnknownCategory
	}
	return slices.Clone(entries), nil
}

// LookupRange finds a parameter by case-insensitive name across all
// categories.
func LookupRange(parameter string) (RangeEntry, Category, bool) {
	tables, err := loadRanges()
	if err != nil {
		return RangeEntry{}, "", false
	}
	for _, c := range categoryOrder {
		for _, e := range tables[c] {
			if strings.EqualFold(e.Parameter, parameter) {
				return e, c, true
			}
		}
	}
	return RangeEntry{}, "", false
}
