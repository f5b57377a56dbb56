package nodes

import (
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

const (
	KindDataModelValue = "datamodel.value"
	KindDataModelCycle = "datamodel.cycle"
)

// DataSource is the part of a script context data model nodes read from
type DataSource interface {
	Lookup(path string) (any, bool)
}

// DataModelStorage is the storage payload of data model nodes
type DataModelStorage struct {
	Path string `json:"path"`
}

// dataModelValue outputs the value found at a path of the host data model.
// A path that does not resolve outputs the zero value.
type dataModelValue struct {
	path string
	out  *graph.Pin
}

func (d *dataModelValue) Evaluate(n *graph.Node) error {
	if d.path == "" {
		return ErrEmptyPath
	}
	src, ok := n.Script().Context().(DataSource)
	if !ok {
		return ErrNoDataSource
	}
	v, found := src.Lookup(d.path)
	if !found {
		return d.out.SetValue(nil)
	}
	return d.out.SetValue(v)
}

func (d *dataModelValue) StorageChanged(n *graph.Node) error {
	s, err := graph.DecodeStorage[DataModelStorage](n)
	if err != nil {
		return err
	}
	d.path = s.Path
	return nil
}

func dataModelValueFactory(n *graph.Node) graph.Logic {
	return &dataModelValue{out: n.AddOutput("Value", types.Any)}
}

// dataModelCycle steps through its values each time Trigger turns true
type dataModelCycle struct {
	trigger *graph.Pin
	values  *graph.PinCollection
	out     *graph.Pin

	index int
	last  bool
}

func (d *dataModelCycle) Evaluate(n *graph.Node) error {
	pins := d.values.Pins()
	fired := d.trigger.Bool()
	if fired && !d.last {
		d.index++
	}
	d.last = fired
	if d.index >= len(pins) {
		d.index = 0
	}
	return d.out.SetValue(pins[d.index].Value())
}

func (d *dataModelCycle) Reset(n *graph.Node) {
	d.index = 0
	d.last = false
}

func dataModelCycleFactory(n *graph.Node) graph.Logic {
	return &dataModelCycle{
		trigger: n.AddInput("Trigger", types.Bool),
		values:  n.AddInputCollection("Values", types.Any, 2, 1),
		out:     n.AddOutput("Output", types.Any),
	}
}

func dataModelKinds() []registry.Descriptor {
	return []registry.Descriptor{
		kind(KindDataModelValue, CategoryDataModel, "Data Model Value", "Outputs the value at a data model path", types.Any, types.Any, dataModelValueFactory),
		kind(KindDataModelCycle, CategoryDataModel, "Value Cycle", "Cycles through the provided values each time the trigger fires", types.Bool, types.Any, dataModelCycleFactory),
	}
}
