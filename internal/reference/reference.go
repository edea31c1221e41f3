// Package reference serves the read-only province, city and country datasets
// used when capturing origins and destinations.
package reference

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/provinces.yaml data/countries.yaml
var dataFS embed.FS

// Province is a first-level administrative area and its cities
type Province struct {
	Key    string   `yaml:"key"`
	Name   string   `yaml:"name"`
	Region string   `yaml:"region"`
	Cities []string `yaml:"cities"`
}

type provinceFile struct {
	Provinces []Province `yaml:"provinces"`
}

type countryFile struct {
	Countries []string `yaml:"countries"`
}

// Dataset is an immutable, indexed copy of the reference data
type Dataset struct {
	provinces  []Province
	byKey      map[string]int
	cities     map[string]map[string]struct{}
	countries  []string
	countrySet map[string]struct{}
}

// Load returns the embedded datasets
func Load() (*Dataset, error) {
	provinces, err := dataFS.ReadFile("data/provinces.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded provinces: %w", err)
	}
	countries, err := dataFS.ReadFile("data/countries.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded countries: %w", err)
	}
	return Parse(provinces, countries)
}

// LoadFiles reads datasets from disk, falling back to the embedded copy for any empty path
func LoadFiles(provincesPath, countriesPath string) (*Dataset, error) {
	read := func(path, embedded string) ([]byte, error) {
		if path == "" {
			return dataFS.ReadFile(embedded)
		}
		return os.ReadFile(path)
	}

	provinces, err := read(provincesPath, "data/provinces.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read provinces: %w", err)
	}
	countries, err := read(countriesPath, "data/countries.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read countries: %w", err)
	}
	return Parse(provinces, countries)
}

// Parse builds a dataset from YAML documents
func Parse(provincesYAML, countriesYAML []byte) (*Dataset, error) {
	var pf provinceFile
	if err := yaml.Unmarshal(provincesYAML, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse provinces: %w", err)
	}
	var cf countryFile
	if err := yaml.Unmarshal(countriesYAML, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse countries: %w", err)
	}

	d := &Dataset{
		provinces:  make([]Province, 0, len(pf.Provinces)),
		byKey:      make(map[string]int, len(pf.Provinces)),
		cities:     make(map[string]map[string]struct{}, len(pf.Provinces)),
		countrySet: make(map[string]struct{}, len(cf.Countries)),
	}

	for _, p := range pf.Provinces {
		if p.Key == "" || p.Name == "" {
			return nil, fmt.Errorf("province entry missing key or name")
		}
		if _, dup := d.byKey[p.Key]; dup {
			return nil, fmt.Errorf("duplicate province key %q", p.Key)
		}
		d.byKey[p.Key] = len(d.provinces)
		d.provinces = append(d.provinces, p)

		set := make(map[string]struct{}, len(p.Cities))
		for _, c := range p.Cities {
			set[c] = struct{}{}
		}
		d.cities[p.Key] = set
	}
	sort.SliceStable(d.provinces, func(i, j int) bool { return d.provinces[i].Name < d.provinces[j].Name })
	for i, p := range d.provinces {
		d.byKey[p.Key] = i
	}

	for _, c := range cf.Countries {
		if _, dup := d.countrySet[c]; dup {
			continue
		}
		d.countrySet[c] = struct{}{}
		d.countries = append(d.countries, c)
	}
	sort.Strings(d.countries)

	return d, nil
}

// Provinces returns all provinces ordered by name
func (d *Dataset) Provinces() []Province {
	out := make([]Province, len(d.provinces))
	copy(out, d.provinces)
	return out
}

// Province looks up a province by key
func (d *Dataset) Province(key string) (Province, bool) {
	i, ok := d.byKey[key]
	if !ok {
		return Province{}, false
	}
	return d.provinces[i], true
}

// ProvinceName resolves a province key to its display name
func (d *Dataset) ProvinceName(key string) (string, bool) {
	p, ok := d.Province(key)
	return p.Name, ok
}

// Cities lists the cities of a province
func (d *Dataset) Cities(key string) ([]string, bool) {
	p, ok := d.Province(key)
	if !ok {
		return nil, false
	}
	out := make([]string, len(p.Cities))
	copy(out, p.Cities)
	return out, true
}

// HasCity reports whether city belongs to the province
func (d *Dataset) HasCity(provinceKey, city string) bool {
	set, ok := d.cities[provinceKey]
	if !ok {
		return false
	}
	_, ok = set[city]
	return ok
}

// Countries lists all countries alphabetically
func (d *Dataset) Countries() []string {
	out := make([]string, len(d.countries))
	copy(out, d.countries)
	return out
}

// HasCountry reports whether name is a known country
func (d *Dataset) HasCountry(name string) bool {
	_, ok := d.countrySet[name]
	return ok
}
