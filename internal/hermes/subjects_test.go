package hermes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectBuilders(t *testing.T) {
	assert.Equal(t, "market.bid.b-1.scored", SubjectBidScored("b-1"))
	assert.Equal(t, "market.bid.b-1.anomaly", SubjectBidAnomaly("b-1"))
	assert.Equal(t, "market.mission.m-1.ranked", SubjectMissionRanked("m-1"))
}

func TestBidIDFromSubject(t *testing.T) {
	tests := []struct {
		subject string
		want    string
		ok      bool
	}{
		{"market.bid.abc.submitted", "abc", true},
		{"market.bid.abc.scored", "abc", true},
		{"market.mission.abc.ranked", "", false},
		{"market.bid..submitted", "", false},
		{"market.bid.submitted", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got, ok := BidIDFromSubject(tt.subject)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStreamCoversPublishedSubjects(t *testing.T) {
	covered := func(subject string) bool {
		for _, pattern := range StreamSubjects {
			prefix := pattern[:len(pattern)-1]
			if len(subject) > len(prefix) && subject[:len(prefix)] == prefix {
				return true
			}
		}
		return false
	}
	for _, s := range []string{SubjectBidScored("x"), SubjectBidAnomaly("x"), SubjectMissionRanked("x"), SubjectScoringStats} {
		assert.True(t, covered(s), s)
	}
}
