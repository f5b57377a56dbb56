package entities

import "github.com/google/uuid"

// NodeScriptEntity is a persisted node script
type NodeScriptEntity struct {
	Name        string `json:"Name" yaml:"Name" msgpack:"Name" validate:"max=200"`
	Description string `json:"Description" yaml:"Description" msgpack:"Description" validate:"max=1000"`

	// ResultType is the exit pin type; empty means the host decides
	ResultType  string                 `json:"ResultType,omitempty" yaml:"ResultType,omitempty" msgpack:"ResultType,omitempty" validate:"omitempty,value_type"`
	Nodes       []NodeEntity           `json:"Nodes" yaml:"Nodes" msgpack:"Nodes" validate:"required,min=1,dive"`
	Connections []NodeConnectionEntity `json:"Connections" yaml:"Connections" msgpack:"Connections" validate:"dive"`
}

// ExitNode returns the first node flagged as exit node
func (e *NodeScriptEntity) ExitNode() (*NodeEntity, bool) {
	for i := range e.Nodes {
		if e.Nodes[i].IsExitNode {
			return &e.Nodes[i], true
		}
	}
	return nil, false
}

// NodeEntity is a persisted node. Storage is the kind-specific JSON envelope.
type NodeEntity struct {
	ID             uuid.UUID                 `json:"Id" yaml:"Id" msgpack:"Id" validate:"required"`
	Type           string                    `json:"Type" yaml:"Type" msgpack:"Type" validate:"required,kind_id"`
	ProviderID     string                    `json:"ProviderId" yaml:"ProviderId" msgpack:"ProviderId"`
	Name           string                    `json:"Name" yaml:"Name" msgpack:"Name"`
	Description    string                    `json:"Description" yaml:"Description" msgpack:"Description"`
	IsExitNode     bool                      `json:"IsExitNode" yaml:"IsExitNode" msgpack:"IsExitNode"`
	X              float64                   `json:"X" yaml:"X" msgpack:"X"`
	Y              float64                   `json:"Y" yaml:"Y" msgpack:"Y"`
	Storage        string                    `json:"Storage" yaml:"Storage" msgpack:"Storage"`
	PinCollections []NodePinCollectionEntity `json:"PinCollections" yaml:"PinCollections" msgpack:"PinCollections" validate:"dive"`
}

// NodePinCollectionEntity records the size of a pin collection
type NodePinCollectionEntity struct {
	ID        int `json:"Id" yaml:"Id" msgpack:"Id" validate:"min=0"`
	Direction int `json:"Direction" yaml:"Direction" msgpack:"Direction" validate:"pin_direction"`
	Amount    int `json:"Amount" yaml:"Amount" msgpack:"Amount" validate:"min=0"`
}

// NodeConnectionEntity is a persisted connection.
// A pin collection id of -1 addresses a single pin.
type NodeConnectionEntity struct {
	SourceType            string    `json:"SourceType" yaml:"SourceType" msgpack:"SourceType" validate:"value_type"`
	SourceNode            uuid.UUID `json:"SourceNode" yaml:"SourceNode" msgpack:"SourceNode" validate:"required"`
	SourcePinCollectionID int       `json:"SourcePinCollectionId" yaml:"SourcePinCollectionId" msgpack:"SourcePinCollectionId" validate:"min=-1"`
	SourcePinID           int       `json:"SourcePinId" yaml:"SourcePinId" msgpack:"SourcePinId" validate:"min=0"`
	TargetType            string    `json:"TargetType" yaml:"TargetType" msgpack:"TargetType" validate:"value_type"`
	TargetNode            uuid.UUID `json:"TargetNode" yaml:"TargetNode" msgpack:"TargetNode" validate:"required"`
	TargetPinCollectionID int       `json:"TargetPinCollectionId" yaml:"TargetPinCollectionId" msgpack:"TargetPinCollectionId" validate:"min=-1"`
	TargetPinID           int       `json:"TargetPinId" yaml:"TargetPinId" msgpack:"TargetPinId" validate:"min=0"`
}
