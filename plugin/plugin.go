// Package plugin defines the level 3 detector contract and the bundled
// detectors. A plugin is a pure predicate over one annotated action paired
// with the intervention to surface when the behavior it detects accumulates.
package plugin

import (
	"fmt"

	"github.com/sonnes/lekhak/core"
	"github.com/sonnes/lekhak/similarity"
)

// InterventionType enumerates how an intervention reaches the writer.
type InterventionType string

const (
	Toast       InterventionType = "toast"
	None        InterventionType = "none"
	Alert       InterventionType = "alert"
	ModifyQuery InterventionType = "modify_query"
)

// Intervention is the action to take when a detected behavior crosses the
// intervention threshold.
type Intervention struct {
	Type    InterventionType `json:"intervention_type"`
	Message string           `json:"intervention_message,omitempty"`
}

// NewIntervention validates at construction time: every type except None
// requires a non-empty message.
func NewIntervention(t InterventionType, message string) (Intervention, error) {
	if t != None && message == "" {
		return Intervention{}, fmt.Errorf("intervention message is required for type %q", t)
	}
	return Intervention{Type: t, Message: message}, nil
}

// MustIntervention is NewIntervention for statically known-valid detectors.
func MustIntervention(t InterventionType, message string) Intervention {
	iv, err := NewIntervention(t, message)
	if err != nil {
		panic(err)
	}
	return iv
}

// Plugin is a level 3 behavior detector.
//
// Detect must not mutate shared state; it may write diagnostic fields onto
// the action itself (Level3Info) explaining what it compared.
type Plugin interface {
	Name() string
	Detect(a *core.Action) bool
	Intervention() Intervention
}

// Factory builds a plugin around a similarity function.
type Factory func(fn similarity.Func) Plugin

var (
	factories    = map[string]Factory{}
	factoryOrder []string
)

// Register makes a plugin constructable by name. Bundled detectors register
// at init; hosts may add their own before loading config.
func Register(name string, f Factory) {
	if _, dup := factories[name]; !dup {
		factoryOrder = append(factoryOrder, name)
	}
	factories[name] = f
}

// Registered returns the registered plugin names in registration order.
func Registered() []string {
	return append([]string(nil), factoryOrder...)
}

// New constructs a registered plugin by name.
func New(name string, fn similarity.Func) (Plugin, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown plugin %q", name)
	}
	return f(fn), nil
}

// FromNames constructs the active plugin list in the given order.
func FromNames(names []string, fn similarity.Func) ([]Plugin, error) {
	plugins := make([]Plugin, 0, len(names))
	for _, name := range names {
		p, err := New(name, fn)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func init() {
	Register("major_insert_mindless_echo", func(fn similarity.Func) Plugin { return MindlessEcho{Similarity: fn} })
	Register("minor_insert_mindless_edit", func(fn similarity.Func) Plugin { return MindlessEdit{Similarity: fn} })
	Register("any_insert", func(similarity.Func) Plugin { return AnyInsert{} })
}
