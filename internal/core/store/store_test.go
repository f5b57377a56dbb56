package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lightgraph/lightgraph/pkg/entities"
)

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name   string
		record *Record
		err    error
	}{
		{"nil", nil, ErrNilRecord},
		{"missing id", &Record{Name: "x"}, ErrInvalidRecordID},
		{"missing name", &Record{ID: uuid.New()}, ErrInvalidName},
		{"valid", NewRecord(entities.NodeScriptEntity{Name: "x"}), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFilter(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)

	t.Run("validate", func(t *testing.T) {
		assert.ErrorIs(t, (&Filter{Limit: -1}).Validate(), ErrInvalidLimit)
		assert.ErrorIs(t, (&Filter{Offset: -1}).Validate(), ErrInvalidOffset)
		assert.ErrorIs(t, (&Filter{Since: &now, Before: &earlier}).Validate(), ErrInvalidTimeRange)
		assert.NoError(t, (&Filter{Since: &earlier, Before: &now}).Validate())
	})

	t.Run("matches", func(t *testing.T) {
		r := NewRecord(entities.NodeScriptEntity{Name: "ambient"})
		r.Metadata.Tags = []string{"keyboard"}
		r.UpdatedAt = now.Add(-time.Minute)

		assert.True(t, (&Filter{}).Matches(r))
		assert.True(t, (&Filter{Name: "ambient", Tag: "keyboard"}).Matches(r))
		assert.False(t, (&Filter{Name: "other"}).Matches(r))
		assert.False(t, (&Filter{Tag: "mouse"}).Matches(r))
		assert.True(t, (&Filter{Since: &earlier, Before: &now}).Matches(r))
		assert.False(t, (&Filter{Before: &earlier}).Matches(r))
	})
}

func TestFilterPage(t *testing.T) {
	records := make([]*Record, 5)
	for i := range records {
		records[i] = &Record{Version: string(rune('a' + i))}
	}
	versions := func(rs []*Record) string {
		out := ""
		for _, r := range rs {
			out += r.Version
		}
		return out
	}

	assert.Equal(t, "abcde", versions((&Filter{}).Page(records)))
	assert.Equal(t, "bc", versions((&Filter{Offset: 1, Limit: 2}).Page(records)))
	assert.Equal(t, "de", versions((&Filter{Offset: 3}).Page(records)))
	assert.Nil(t, (&Filter{Offset: 5}).Page(records))
}
