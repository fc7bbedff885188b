package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampFieldPosition(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-5, 0},
		{0, 0},
		{35, 35},
		{100, 100},
		{104, 100},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClampFieldPosition(tc.in))
	}
}

func TestDistanceBucket(t *testing.T) {
	assert.Equal(t, "1-3", DistanceBucket(1))
	assert.Equal(t, "1-3", DistanceBucket(3))
	assert.Equal(t, "4-6", DistanceBucket(4))
	assert.Equal(t, "4-6", DistanceBucket(6))
	assert.Equal(t, "7+", DistanceBucket(7))
	assert.Equal(t, "7+", DistanceBucket(25))
}

func TestFieldPositionBucket(t *testing.T) {
	assert.Equal(t, "0-20", FieldPositionBucket(-3))
	assert.Equal(t, "0-20", FieldPositionBucket(20))
	assert.Equal(t, "21-40", FieldPositionBucket(21))
	assert.Equal(t, "41-60", FieldPositionBucket(55))
	assert.Equal(t, "61+", FieldPositionBucket(80))
	assert.Equal(t, "61+", FieldPositionBucket(140))
}

func TestIsSuccess(t *testing.T) {
	positive := 0.4
	zero := 0.0
	negative := -0.2

	assert.True(t, IsSuccess(&positive))
	assert.False(t, IsSuccess(&zero))
	assert.False(t, IsSuccess(&negative))
	assert.False(t, IsSuccess(nil))
}

func TestIsExplosive(t *testing.T) {
	twenty := 20
	nineteen := 19

	assert.True(t, IsExplosive(&twenty))
	assert.False(t, IsExplosive(&nineteen))
	assert.False(t, IsExplosive(nil))
}

func TestDriveResultClassification(t *testing.T) {
	assert.True(t, IsScoringResult("TD"))
	assert.True(t, IsScoringResult("fg"))
	assert.False(t, IsScoringResult("PUNT"))

	assert.True(t, IsGiveawayResult("INT"))
	assert.True(t, IsGiveawayResult("Turnover on Downs"))
	assert.False(t, IsGiveawayResult("TD"))
	assert.False(t, IsGiveawayResult("PUNT"))
}

func TestResultCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TD", ResultTouchdown},
		{"RUSHING TD", ResultTouchdown},
		{"Passing TD", ResultTouchdown},
		{"FG", ResultFieldGoal},
		{"MADE FG", ResultFieldGoal},
		{"PUNT", ResultPunt},
		{"INT", ResultTurnover},
		{"FUMBLE RETURN TD", ResultTurnover},
		{"DOWNS", ResultDowns},
		{"Turnover on Downs", ResultDowns},
		{"END OF HALF", ResultEndOfHalf},
		{"END OF GAME", ResultEndOfHalf},
		{"MISSED FG", ResultOther},
		{"SAFETY", ResultOther},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ResultCategory(tc.in), tc.in)
	}
}
