package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var defaultRegions []byte

// Region is one entry of the location selector with its map centre.
type Region struct {
	Code     domain.LocationCode `yaml:"code"`
	Name     string              `yaml:"name"`
	Lat      float64             `yaml:"lat"`
	Lng      float64             `yaml:"lng"`
	Accuracy float64             `yaml:"accuracy"`
}

// Regions is the ordered region catalog.
type Regions struct {
	list   []Region
	byCode map[domain.LocationCode]Region
}

type regionsFile struct {
	Regions []Region `yaml:"regions"`
}

// LoadRegions reads the catalog at path, or the embedded catalog when path is empty.
func LoadRegions(path string) (*Regions, error) {
	data := defaultRegions
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read regions file: %w", err)
		}
		data = b
	}
	return ParseRegions(data)
}

// ParseRegions decodes a YAML region catalog.
func ParseRegions(data []byte) (*Regions, error) {
	var f regionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse regions: %w", err)
	}
	if len(f.Regions) == 0 {
		return nil, errors.New("parse regions: catalog is empty")
	}

	r := &Regions{byCode: make(map[domain.LocationCode]Region, len(f.Regions))}
	for i, reg := range f.Regions {
		reg.Code = domain.ParseLocationCode(string(reg.Code))
		if reg.Code == "" {
			return nil, fmt.Errorf("parse regions: entry %d has no code", i)
		}
		if _, dup := r.byCode[reg.Code]; dup {
			return nil, fmt.Errorf("parse regions: duplicate code %q", reg.Code)
		}
		if reg.Lat < -90 || reg.Lat > 90 || reg.Lng < -180 || reg.Lng > 180 {
			return nil, fmt.Errorf("parse regions: %s has out-of-range coordinates", reg.Code)
		}
		if reg.Name == "" {
			reg.Name = reg.Code.DisplayName()
		}
		r.list = append(r.list, reg)
		r.byCode[reg.Code] = reg
	}
	return r, nil
}

// Lookup returns the region for code.
func (r *Regions) Lookup(code domain.LocationCode) (Region, bool) {
	reg, ok := r.byCode[code]
	return reg, ok
}

// All returns the catalog in file order.
func (r *Regions) All() []Region {
	out := make([]Region, len(r.list))
	copy(out, r.list)
	return out
}
