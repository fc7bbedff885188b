package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayTypeClassification(t *testing.T) {
	ptr := func(s string) *string { return &s }

	tests := []struct {
		playType *string
		rush     bool
		pass     bool
	}{
		{ptr("Rush"), true, false},
		{ptr("Rushing Touchdown"), true, false},
		{ptr("Pass Reception"), false, true},
		{ptr("Pass Incompletion"), false, true},
		{ptr("Sack"), false, true},
		{ptr("Punt"), false, false},
		{nil, false, false},
	}

	for _, tc := range tests {
		p := Play{PlayType: tc.playType}
		assert.Equal(t, tc.rush, p.IsRush())
		assert.Equal(t, tc.pass, p.IsPass())
	}
}

func TestTeamDisplayName(t *testing.T) {
	assert.Equal(t, "Oklahoma Sooners", TeamDisplayName("Oklahoma", "Sooners", ""))
	assert.Equal(t, "Tulsa Golden Hurricane", TeamDisplayName("Tulsa", "", "Golden Hurricane"))
	assert.Equal(t, "Army", TeamDisplayName("Army", " ", ""))
}
