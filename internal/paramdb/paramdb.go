// Package paramdb provides the read-only parameter database plug-in.
//
// Parameters are loaded from a YAML file:
//
//	parameters:
//	  - id: 0
//	    name: heater_setpoint
//	    value: 22.5
//
// Ids must be unique and non-negative. Unknown YAML fields are rejected.
package paramdb

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/obsw/internal/root"
)

// Sentinel errors for the parameter database.
var (
	ErrUnknownParameter   = errors.New("unknown parameter")
	ErrDuplicateParameter = errors.New("duplicate parameter")
)

// Parameter is one entry of the database.
type Parameter struct {
	ID    root.ParameterID `yaml:"id"`
	Name  string           `yaml:"name"`
	Value float64          `yaml:"value"`
}

// file is the on-disk layout.
type file struct {
	Parameters []Parameter `yaml:"parameters"`
}

// Database implements root.ParameterDatabase.
type Database struct {
	byID   map[root.ParameterID]Parameter
	byName map[string]root.ParameterID
}

var _ root.ParameterDatabase = (*Database)(nil)

// New builds a database from params.
func New(params []Parameter) (*Database, error) {
	db := &Database{
		byID:   make(map[root.ParameterID]Parameter, len(params)),
		byName: make(map[string]root.ParameterID, len(params)),
	}
	for i, p := range params {
		if p.ID < 0 {
			return nil, fmt.Errorf("parameters[%d]: id must be non-negative, got %d", i, p.ID)
		}
		if _, exists := db.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateParameter, p.ID)
		}
		if p.Name != "" {
			if _, exists := db.byName[p.Name]; exists {
				return nil, fmt.Errorf("%w: name %q", ErrDuplicateParameter, p.Name)
			}
			db.byName[p.Name] = p.ID
		}
		db.byID[p.ID] = p
	}
	return db, nil
}

// Parse reads a database from YAML.
func Parse(data []byte) (*Database, error) {
	var f file
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse parameters: %w", err)
	}
	return New(f.Parameters)
}

// Load reads a database from a YAML file.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}
	return Parse(data)
}

// Parameter returns the value of a parameter.
func (db *Database) Parameter(id root.ParameterID) (float64, error) {
	p, ok := db.byID[id]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownParameter, id)
	}
	return p.Value, nil
}

// Lookup returns the id of a named parameter.
func (db *Database) Lookup(name string) (root.ParameterID, bool) {
	id, ok := db.byName[name]
	return id, ok
}

// Contains reports whether id is defined.
func (db *Database) Contains(id root.ParameterID) bool {
	_, ok := db.byID[id]
	return ok
}

// Size returns the number of parameters.
func (db *Database) Size() int {
	return len(db.byID)
}

// Parameters returns all parameters ordered by id.
func (db *Database) Parameters() []Parameter {
	params := make([]Parameter, 0, len(db.byID))
	for _, p := range db.byID {
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool { return params[i].ID < params[j].ID })
	return params
}
