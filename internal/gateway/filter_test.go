package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterMatches(t *testing.T) {
	fields := map[string]any{
		"date":      "2024-01-05",
		"completed": false,
		"order":     3,
		"gone":      nil,
	}

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"equals string hit", Equals("date", "2024-01-05"), true},
		{"equals string miss", Equals("date", "2024-01-06"), false},
		{"equals bool", Equals("completed", false), true},
		{"equals int", Equals("order", 3), true},
		{"equals nil vs explicit null", Equals("gone", nil), true},
		{"equals nil vs missing field", Equals("missing", nil), true},
		{"equals nil vs set field", Equals("date", nil), false},
		{"not equals miss", NotEquals("date", "2024-01-06"), true},
		{"not equals hit", NotEquals("date", "2024-01-05"), false},
		{"not equals nil vs set field", NotEquals("date", nil), true},
		{"not equals nil vs explicit null", NotEquals("gone", nil), false},
		{"not equals nil vs missing field", NotEquals("missing", nil), false},
		{"unknown op never matches", Filter{Field: "date", Op: Op(">"), Value: "a"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(fields))
		})
	}
}
