package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPremierLeague2024IsValid(t *testing.T) {
	require.NoError(t, PremierLeague2024.Validate())

	cols := PremierLeague2024.Columns()
	assert.Equal(t, []string{NameKey, TeamKey}, cols[:2])
	assert.Equal(t, PremierLeague2024.Width(), len(cols))
	assert.Equal(t, len(cols)-2, PremierLeague2024.AttributeWidth())
	assert.Equal(t, "nationality", cols[2])
	assert.Equal(t, "aerials_won_pct", cols[len(cols)-1])
}

func TestIndex(t *testing.T) {
	s := Schema{
		EligibilityTable: "playing",
		Groups: []Group{
			{TableID: "a", Keys: []string{"x", "y"}},
			{TableID: "b", Keys: []string{"z"}},
		},
	}
	assert.Equal(t, 0, s.Index("x"))
	assert.Equal(t, 2, s.Index("z"))
	assert.Equal(t, -1, s.Index("missing"))
	assert.Equal(t, 2, PremierLeague2024.Index(AgeKey))
}

func TestValidateRejectsBadLayouts(t *testing.T) {
	cases := []struct {
		name   string
		schema Schema
	}{
		{name: "no eligibility", schema: Schema{Groups: []Group{{TableID: "a", Keys: []string{"x"}}}}},
		{name: "no groups", schema: Schema{EligibilityTable: "p"}},
		{name: "empty group", schema: Schema{EligibilityTable: "p", Groups: []Group{{TableID: "a"}}}},
		{name: "duplicate key", schema: Schema{EligibilityTable: "p", Groups: []Group{
			{TableID: "a", Keys: []string{"x"}},
			{TableID: "b", Keys: []string{"x"}},
		}}},
		{name: "identity key reused", schema: Schema{EligibilityTable: "p", Groups: []Group{
			{TableID: "a", Keys: []string{NameKey}},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.schema.Validate())
		})
	}
}
