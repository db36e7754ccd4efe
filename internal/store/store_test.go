package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEntry struct {
	id   string
	fill int
}

func (e fakeEntry) ID() string     { return e.id }
func (e fakeEntry) FillValue() int { return e.fill }

func TestStorage_Send_KeepsRichestDuplicate(t *testing.T) {
	tests := []struct {
		name     string
		sent     []fakeEntry
		expected []fakeEntry
	}{
		{
			name:     "single entry",
			sent:     []fakeEntry{{id: "Class A", fill: 1}},
			expected: []fakeEntry{{id: "Class A", fill: 1}},
		},
		{
			name: "later richer duplicate replaces earlier",
			sent: []fakeEntry{
				{id: "Class A", fill: 1},
				{id: "Class A", fill: 3},
			},
			expected: []fakeEntry{{id: "Class A", fill: 3}},
		},
		{
			name: "later poorer duplicate is discarded",
			sent: []fakeEntry{
				{id: "Class A", fill: 3},
				{id: "Class A", fill: 1},
			},
			expected: []fakeEntry{{id: "Class A", fill: 3}},
		},
		{
			name: "distinct ids preserve first-seen order",
			sent: []fakeEntry{
				{id: "Class B", fill: 1},
				{id: "Class A", fill: 1},
			},
			expected: []fakeEntry{
				{id: "Class B", fill: 1},
				{id: "Class A", fill: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New[fakeEntry]()
			for _, e := range tt.sent {
				s.Send(e)
			}
			assert.Equal(t, tt.expected, s.Entries())
			assert.Equal(t, len(tt.expected), s.Len())
		})
	}
}
