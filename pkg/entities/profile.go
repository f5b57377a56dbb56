package entities

import "github.com/google/uuid"

// DataBindingEntity binds a script result to a layer property
type DataBindingEntity struct {
	Path   string           `json:"Path" yaml:"Path" msgpack:"Path" validate:"required,property_path"`
	Script NodeScriptEntity `json:"Script" yaml:"Script" msgpack:"Script"`
}

// LayerEntity is a persisted layer: its timeline, properties and scripts
type LayerEntity struct {
	ID               uuid.UUID             `json:"Id" yaml:"Id" msgpack:"Id" validate:"required"`
	Name             string                `json:"Name" yaml:"Name" msgpack:"Name" validate:"required,max=200"`
	Timeline         TimelineEntity        `json:"Timeline" yaml:"Timeline" msgpack:"Timeline"`
	DisplayCondition *NodeScriptEntity     `json:"DisplayCondition,omitempty" yaml:"DisplayCondition,omitempty" msgpack:"DisplayCondition,omitempty"`
	Properties       []LayerPropertyEntity `json:"Properties" yaml:"Properties" msgpack:"Properties" validate:"dive"`
	DataBindings     []DataBindingEntity   `json:"DataBindings" yaml:"DataBindings" msgpack:"DataBindings"`
}

// ProfileEntity is a persisted lighting profile
type ProfileEntity struct {
	ID     uuid.UUID     `json:"Id" yaml:"Id" msgpack:"Id" validate:"required"`
	Name   string        `json:"Name" yaml:"Name" msgpack:"Name" validate:"required,max=200"`
	Layers []LayerEntity `json:"Layers" yaml:"Layers" msgpack:"Layers"`
}
