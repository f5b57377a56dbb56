package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/core/graph"
)

// EvaluateRequest asks for one pass over a stored script
type EvaluateRequest struct {
	ScriptID string         `json:"script_id"`
	Context  map[string]any `json:"context,omitempty"`

	// NodeID inspects a single node instead of the exit node
	NodeID string `json:"node_id,omitempty"`
}

// EvaluateResponse reports the outcome of a pass
type EvaluateResponse struct {
	ScriptID string         `json:"script_id"`
	Status   EvaluateStatus `json:"status"`
	Value    any            `json:"value"`
	Outputs  map[string]any `json:"outputs,omitempty"`
	Computed int            `json:"computed"`
	Faults   []FaultResult  `json:"faults,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Duration time.Duration  `json:"duration"`
	Error    string         `json:"error,omitempty"`
}

// EvaluateStatus represents the status of a pass
type EvaluateStatus string

const (
	EvaluateStatusCompleted EvaluateStatus = "completed"
	EvaluateStatusFaulted   EvaluateStatus = "faulted"
	EvaluateStatusFailed    EvaluateStatus = "failed"
)

// FaultResult is a node fault in wire form
type FaultResult struct {
	NodeID string `json:"node_id"`
	KindID string `json:"kind_id"`
	Error  string `json:"error"`
}

// Validate checks the ids and returns them parsed
func (req *EvaluateRequest) Validate() (script, node uuid.UUID, err error) {
	if req.ScriptID == "" {
		return uuid.Nil, uuid.Nil, ErrMissingScriptID
	}
	if script, err = uuid.Parse(req.ScriptID); err != nil {
		return uuid.Nil, uuid.Nil, ErrInvalidScriptID
	}
	if req.NodeID != "" {
		if node, err = uuid.Parse(req.NodeID); err != nil {
			return uuid.Nil, uuid.Nil, ErrInvalidScriptID
		}
	}
	return script, node, nil
}

// NewEvaluateResponse converts a pass result. err is the pass error, if any.
func NewEvaluateResponse(id uuid.UUID, res graph.PassResult, d time.Duration, err error) *EvaluateResponse {
	resp := &EvaluateResponse{
		ScriptID: id.String(),
		Status:   EvaluateStatusCompleted,
		Value:    res.Value,
		Outputs:  res.Outputs,
		Computed: res.Computed,
		Duration: d,
	}
	for _, f := range res.Faults {
		resp.Faults = append(resp.Faults, FaultResult{
			NodeID: f.NodeID.String(),
			KindID: f.KindID,
			Error:  f.Err.Error(),
		})
	}
	switch {
	case err != nil:
		resp.Status = EvaluateStatusFailed
		resp.Error = err.Error()
	case res.Faulted():
		resp.Status = EvaluateStatusFaulted
	}
	return resp
}
