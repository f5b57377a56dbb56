package nodes

import (
	"fmt"

	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

// ProviderID owns every built-in kind
const ProviderID = "core"

// Categories shown in the palette
const (
	CategoryStatic    = "Static"
	CategoryLogic     = "Logic"
	CategoryMath      = "Math"
	CategoryCompare   = "Comparison"
	CategoryColor     = "Color"
	CategoryEasing    = "Easing"
	CategoryDataModel = "Data Model"
	CategoryText      = "Text"
)

func kind(id, category, name, description string, in, out types.ValueType, f registry.Factory) registry.Descriptor {
	return registry.Descriptor{
		KindID:      id,
		ProviderID:  ProviderID,
		Name:        name,
		Description: description,
		Category:    category,
		InputType:   in,
		OutputType:  out,
		Factory:     f,
	}
}

// Builtins lists the descriptors of every built-in kind
func Builtins() []registry.Descriptor {
	var all []registry.Descriptor
	all = append(all, staticKinds()...)
	all = append(all, logicKinds()...)
	all = append(all, mathKinds()...)
	all = append(all, compareKinds()...)
	all = append(all, colorKinds()...)
	all = append(all, easingKinds()...)
	all = append(all, dataModelKinds()...)
	all = append(all, textKinds()...)
	return all
}

// RegisterBuiltins registers every built-in kind
func RegisterBuiltins(r *registry.Registry) error {
	for _, d := range Builtins() {
		if err := r.Register(d); err != nil {
			return fmt.Errorf("register %s: %w", d.KindID, err)
		}
	}
	return nil
}
