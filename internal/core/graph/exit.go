package graph

import "github.com/lightgraph/lightgraph/internal/core/types"

// ExitKindID is the kind of the node whose input is the script result
const ExitKindID = "core.exit"

// ExitPinName names the single input of the exit node
const ExitPinName = "Result"

func newExitNode(resultType types.ValueType) *Node {
	n := NewNode(Kind{ID: ExitKindID, ProviderID: "core", Name: "Exit", Description: "Script result"}, func(n *Node) Logic {
		n.AddInput(ExitPinName, resultType)
		return nil
	})
	n.exit = true
	return n
}
