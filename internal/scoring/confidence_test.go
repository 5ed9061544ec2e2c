package scoring

import "testing"

func TestConfidence(t *testing.T) {
	tests := []struct {
		name      string
		f         Factors
		anomalies int
		want      int
	}{
		{"base", Factors{PriceRatio: 2}, 0, 75},
		{"experienced", Factors{PriceRatio: 2, ExperienceMatch: 21}, 0, 90},
		{"top rated", Factors{PriceRatio: 2, ProviderRating: 4.5}, 0, 85},
		{"fair price", Factors{PriceRatio: 0.9}, 0, 85},
		{"price band is exclusive", Factors{PriceRatio: 1.2}, 0, 75},
		{"capped", Factors{PriceRatio: 0.9, ExperienceMatch: 30, ProviderRating: 5}, 0, 95},
		{"anomalies", Factors{PriceRatio: 0.9, ExperienceMatch: 30, ProviderRating: 5}, 3, 80},
		{"floor", Factors{PriceRatio: 2}, 5, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.f, make([]Anomaly, tt.anomalies))
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBasicConfidence(t *testing.T) {
	tests := []struct {
		name      string
		f         Factors
		anomalies int
		want      int
	}{
		{"base", Factors{}, 0, 75},
		{"experience above 10", Factors{ExperienceMatch: 11}, 0, 85},
		{"experience of 10 is not enough", Factors{ExperienceMatch: 10}, 0, 75},
		{"rating 4.5", Factors{ProviderRating: 4.5}, 0, 85},
		{"rating 4 is not enough", Factors{ProviderRating: 4}, 0, 75},
		{"skills 80", Factors{SkillsMatch: 80}, 0, 80},
		{"healthy bid capped", healthyBid(), 0, 95},
		{"cap applies before anomalies", disguisedDumpingBid(), 3, 65},
		{"floor", Factors{}, 6, MinConfidence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasicConfidence(tt.f, make([]Anomaly, tt.anomalies))
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeAdvanced, "advanced": ModeAdvanced, "basic": ModeBasic} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("turbo"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
