package scoring

import "testing"

func TestBandFromScore(t *testing.T) {
	tests := []struct {
		score int
		want  Band
	}{
		{100, BandExcellent},
		{85, BandExcellent},
		{84, BandGood},
		{70, BandGood},
		{69, BandAverage},
		{55, BandAverage},
		{54, BandPoor},
		{40, BandPoor},
		{39, BandCritical},
		{0, BandCritical},
	}
	for _, tt := range tests {
		if got := BandFromScore(tt.score); got != tt.want {
			t.Errorf("BandFromScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestCompetitionLevelFor(t *testing.T) {
	tests := []struct {
		bids int
		want Level
	}{
		{0, LevelLow},
		{3, LevelLow},
		{4, LevelMedium},
		{7, LevelMedium},
		{8, LevelMedium},
		{9, LevelHigh},
		{15, LevelHigh},
		{40, LevelHigh},
	}
	for _, tt := range tests {
		if got := CompetitionLevelFor(tt.bids); got != tt.want {
			t.Errorf("CompetitionLevelFor(%d) = %s, want %s", tt.bids, got, tt.want)
		}
	}
}

func TestCompetitionMultiplier(t *testing.T) {
	tests := []struct {
		level Level
		want  float64
	}{
		{LevelLow, 1.1},
		{LevelMedium, 0.95},
		{LevelHigh, 0.85},
		{"", 1},
	}
	for _, tt := range tests {
		if got := CompetitionMultiplier(tt.level); got != tt.want {
			t.Errorf("CompetitionMultiplier(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
