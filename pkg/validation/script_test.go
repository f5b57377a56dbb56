package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgraph/lightgraph/pkg/entities"
)

var (
	exitID   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	staticID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	notID    = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

// validScript is static.bool -> logic.not -> exit
func validScript() *entities.NodeScriptEntity {
	return &entities.NodeScriptEntity{
		Name:       "condition",
		ResultType: "bool",
		Nodes: []entities.NodeEntity{
			{ID: exitID, Type: "core.exit", IsExitNode: true},
			{ID: staticID, Type: "static.bool", Storage: "true"},
			{ID: notID, Type: "logic.not"},
		},
		Connections: []entities.NodeConnectionEntity{
			{
				SourceType: "bool", SourceNode: staticID, SourcePinCollectionID: -1, SourcePinID: 0,
				TargetType: "bool", TargetNode: notID, TargetPinCollectionID: -1, TargetPinID: 0,
			},
			{
				SourceType: "bool", SourceNode: notID, SourcePinCollectionID: -1, SourcePinID: 0,
				TargetType: "bool", TargetNode: exitID, TargetPinCollectionID: -1, TargetPinID: 0,
			},
		},
	}
}

func TestValidateScriptEntity(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(e *entities.NodeScriptEntity)
		opts    []ScriptValidationOptions
		wantErr error
	}{
		{name: "valid"},
		{name: "valid with cycle check", opts: []ScriptValidationOptions{{CheckCycles: true}}},
		{
			name:    "missing exit node",
			edit:    func(e *entities.NodeScriptEntity) { e.Nodes[0].IsExitNode = false },
			wantErr: ErrMissingExitNode,
		},
		{
			name:    "two exit nodes",
			edit:    func(e *entities.NodeScriptEntity) { e.Nodes[1].IsExitNode = true },
			wantErr: ErrMultipleExitNodes,
		},
		{
			name:    "duplicate node id",
			edit:    func(e *entities.NodeScriptEntity) { e.Nodes[2].ID = staticID },
			wantErr: ErrDuplicateNodeID,
		},
		{
			name:    "dangling source",
			edit:    func(e *entities.NodeScriptEntity) { e.Connections[0].SourceNode = uuid.New() },
			wantErr: ErrDanglingEndpoint,
		},
		{
			name: "occupied target",
			edit: func(e *entities.NodeScriptEntity) {
				e.Connections[1].TargetNode = notID
			},
			wantErr: ErrOccupiedTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validScript()
			if tt.edit != nil {
				tt.edit(e)
			}
			err := ValidateScriptEntity(e, tt.opts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateScriptEntity_TagErrors(t *testing.T) {
	e := validScript()
	e.Nodes[1].Type = ""
	e.Connections[0].SourceType = "float"
	e.Connections[0].TargetPinCollectionID = -2

	var errs ValidationErrors
	require.ErrorAs(t, ValidateScriptEntity(e), &errs)
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{
		"NodeScriptEntity.Nodes[1].Type",
		"NodeScriptEntity.Connections[0].SourceType",
		"NodeScriptEntity.Connections[0].TargetPinCollectionId",
	}, fields)

	assert.ErrorIs(t, ValidateScriptEntity(nil), ErrNilEntity)
}

func TestValidateScriptEntity_CycleDetection(t *testing.T) {
	e := validScript()
	// not feeds itself through its own input
	e.Connections[0].SourceNode = notID

	// Default does not check cycles
	assert.NoError(t, ValidateScriptEntity(e))
	// Enabling cycle check should error
	err := ValidateScriptEntity(e, ScriptValidationOptions{CheckCycles: true})
	assert.ErrorIs(t, err, ErrCyclicScript)
}
