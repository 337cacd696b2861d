// Package config loads obsw system descriptions written in CUE.
//
// A system directory holds one or more .cue files of the same package
// describing the registry capacity, plug-in services and framework objects:
//
//	package system
//
//	system: {
//		capacity:   2
//		parameters: "params.yaml"
//		datapool: { size: 2, items: { temperature: { id: 0, value: 20.0 } } }
//		services: { tracer: "slog" }
//	}
//	objects: {
//		temp_monitor:   { kind: "monitor", item: 0, lower: -10.0, upper: 60.0, event: 1 }
//		heater_sampler: { kind: "sampler", parameter: 0, item: 1, period: 4 }
//	}
//
// The files are unified with an embedded schema that supplies defaults and
// rejects unknown fields. Objects keep their declaration order, which is
// the order they are constructed in.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/obsw/internal/root"
)

//go:embed schema.cue
var schemaCUE string

// MemoryStore is the store path of a private in-memory database.
const MemoryStore = ":memory:"

// Kind names a framework object type.
type Kind string

const (
	KindMonitor Kind = "monitor"
	KindSampler Kind = "sampler"
)

// ServiceMode selects how a plug-in service is provided. ModeNone leaves
// the service unset, which makes every object report not configured.
type ServiceMode string

const (
	ModeStore  ServiceMode = "store"
	ModeSlog   ServiceMode = "slog"
	ModeMemory ServiceMode = "memory"
	ModeFile   ServiceMode = "file"
	ModeNone   ServiceMode = "none"
)

// Services selects the provider of each plug-in service.
type Services struct {
	Tracer            ServiceMode
	EventRepository   ServiceMode
	DataPool          ServiceMode
	ParameterDatabase ServiceMode
}

// Item is a named data pool item with its initial value.
type Item struct {
	Name  string
	ID    root.DataPoolID
	Value float64
}

// DataPool describes the data pool.
type DataPool struct {
	Size  int
	Items []Item // sorted by ID
}

// Object describes one framework object. Fields not used by Kind are zero.
type Object struct {
	Name    string
	Kind    Kind
	ClassID root.ClassID // ClassIDIllegal keeps the kind's default

	// monitor
	Item  root.DataPoolID
	Lower float64
	Upper float64
	Event root.EventType

	// sampler
	Parameter root.ParameterID
	Period    int
}

// System is a loaded system description.
type System struct {
	// Dir is the directory the description was loaded from.
	Dir string

	Capacity       int
	StrictCapacity bool

	// Store is the SQLite path, resolved against Dir, or MemoryStore.
	Store string

	// Parameters is the parameter file path resolved against Dir, or
	// empty for an empty parameter database.
	Parameters string

	DataPool DataPool
	Services Services
	Objects  []Object
}

// Load reads every .cue file in dir as one CUE instance.
func Load(dir string) (*System, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("system directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing system directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fromCUE(ErrCodeBuildFailed, err)
	}
	return decode(ctx, value, dir)
}

// Parse reads a single CUE source. Relative paths resolve against dir.
func Parse(src []byte, dir string) (*System, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename("system.cue"))
	if err := value.Err(); err != nil {
		return nil, fromCUE(ErrCodeBuildFailed, err)
	}
	return decode(ctx, value, dir)
}

func decode(ctx *cue.Context, value cue.Value, dir string) (*System, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fromCUE(ErrCodeGeneric, err)
	}

	value = schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fromCUE(ErrCodeBuildFailed, err)
	}

	sys, err := decodeSystem(value.LookupPath(cue.ParsePath("system")), dir)
	if err != nil {
		return nil, err
	}
	sys.Objects, err = decodeObjects(value.LookupPath(cue.ParsePath("objects")))
	if err != nil {
		return nil, err
	}
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	return sys, nil
}

func decodeSystem(v cue.Value, dir string) (*System, error) {
	sys := &System{Dir: dir}
	var err error

	if sys.Capacity, err = intField(v, "capacity"); err != nil {
		return nil, err
	}
	if sys.StrictCapacity, err = v.LookupPath(cue.ParsePath("strict_capacity")).Bool(); err != nil {
		return nil, fromCUE(ErrCodeGeneric, err)
	}

	storePath, err := stringField(v, "store")
	if err != nil {
		return nil, err
	}
	sys.Store = resolve(dir, storePath)

	if present(v, "parameters") {
		path, err := stringField(v, "parameters")
		if err != nil {
			return nil, err
		}
		sys.Parameters = resolve(dir, path)
	}

	if sys.DataPool, err = decodeDataPool(v.LookupPath(cue.ParsePath("datapool"))); err != nil {
		return nil, err
	}
	if sys.Services, err = decodeServices(v.LookupPath(cue.ParsePath("services"))); err != nil {
		return nil, err
	}
	return sys, nil
}

func decodeDataPool(v cue.Value) (DataPool, error) {
	var dp DataPool
	size, err := intField(v, "size")
	if err != nil {
		return dp, err
	}
	dp.Size = size

	iter, err := v.LookupPath(cue.ParsePath("items")).Fields()
	if err != nil {
		return dp, fromCUE(ErrCodeGeneric, err)
	}
	for iter.Next() {
		item := iter.Value()
		id, err := intField(item, "id")
		if err != nil {
			return dp, err
		}
		value, err := item.LookupPath(cue.ParsePath("value")).Float64()
		if err != nil {
			return dp, fromCUE(ErrCodeGeneric, err)
		}
		dp.Items = append(dp.Items, Item{
			Name:  iter.Label(),
			ID:    root.DataPoolID(id),
			Value: value,
		})
	}
	sortItems(dp.Items)
	return dp, nil
}

func decodeServices(v cue.Value) (Services, error) {
	var s Services
	fields := []struct {
		label string
		dst   *ServiceMode
	}{
		{"tracer", &s.Tracer},
		{"event_repository", &s.EventRepository},
		{"data_pool", &s.DataPool},
		{"parameter_database", &s.ParameterDatabase},
	}
	for _, f := range fields {
		mode, err := stringField(v, f.label)
		if err != nil {
			return s, err
		}
		*f.dst = ServiceMode(mode)
	}
	return s, nil
}

func decodeObjects(v cue.Value) ([]Object, error) {
	objects := []Object{}
	if !v.Exists() {
		return objects, nil
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, fromCUE(ErrCodeGeneric, err)
	}
	for iter.Next() {
		obj, err := decodeObject(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func decodeObject(name string, v cue.Value) (Object, error) {
	obj := Object{Name: name}
	kind, err := stringField(v, "kind")
	if err != nil {
		return obj, err
	}
	obj.Kind = Kind(kind)

	if present(v, "class_id") {
		id, err := intField(v, "class_id")
		if err != nil {
			return obj, err
		}
		if id <= 0 {
			return obj, &LoadError{
				Code:    ErrCodeClassID,
				Field:   "objects." + name + ".class_id",
				Message: fmt.Sprintf("must be positive, got %d", id),
				Pos:     v.LookupPath(cue.ParsePath("class_id")).Pos(),
			}
		}
		obj.ClassID = root.ClassID(id)
	}

	var required []string
	switch obj.Kind {
	case KindMonitor:
		required = []string{"item", "lower", "upper"}
	case KindSampler:
		required = []string{"parameter", "item", "period"}
	}
	for _, label := range required {
		if !present(v, label) {
			return obj, &LoadError{
				Code:    ErrCodeMissingField,
				Field:   "objects." + name + "." + label,
				Message: fmt.Sprintf("required for kind %q", kind),
				Pos:     v.Pos(),
			}
		}
	}

	item, err := optionalInt(v, "item")
	if err != nil {
		return obj, err
	}
	obj.Item = root.DataPoolID(item)

	switch obj.Kind {
	case KindMonitor:
		if obj.Lower, err = v.LookupPath(cue.ParsePath("lower")).Float64(); err != nil {
			return obj, fromCUE(ErrCodeGeneric, err)
		}
		if obj.Upper, err = v.LookupPath(cue.ParsePath("upper")).Float64(); err != nil {
			return obj, fromCUE(ErrCodeGeneric, err)
		}
		event, err := optionalInt(v, "event")
		if err != nil {
			return obj, err
		}
		obj.Event = root.EventType(event)
	case KindSampler:
		param, err := optionalInt(v, "parameter")
		if err != nil {
			return obj, err
		}
		obj.Parameter = root.ParameterID(param)
		if obj.Period, err = optionalInt(v, "period"); err != nil {
			return obj, err
		}
	}
	return obj, nil
}

func intField(v cue.Value, label string) (int, error) {
	n, err := v.LookupPath(cue.ParsePath(label)).Int64()
	if err != nil {
		return 0, fromCUE(ErrCodeGeneric, err)
	}
	return int(n), nil
}

// present reports whether an optional field was given a concrete value.
func present(v cue.Value, label string) bool {
	f := v.LookupPath(cue.ParsePath(label))
	return f.Exists() && f.IsConcrete()
}

func optionalInt(v cue.Value, label string) (int, error) {
	if !present(v, label) {
		return 0, nil
	}
	return intField(v, label)
}

func stringField(v cue.Value, label string) (string, error) {
	s, err := v.LookupPath(cue.ParsePath(label)).String()
	if err != nil {
		return "", fromCUE(ErrCodeGeneric, err)
	}
	return s, nil
}

func resolve(dir, path string) string {
	if path == MemoryStore || path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
