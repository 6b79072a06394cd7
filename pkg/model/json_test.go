package model

import (
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestInfluencerJSON_NaNIsNull(t *testing.T) {
	inf := Influencer{ChannelName: "A", SubscriberCount: 3, EngagementRate: 5.25, TotalScore: math.NaN()}
	data, err := json.Marshal(inf)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"total_score":null`) {
		t.Errorf("expected null total score, got %s", s)
	}
	if !strings.Contains(s, `"engagement_rate":5.25`) {
		t.Errorf("expected engagement rate, got %s", s)
	}
}

func TestJSONFloat(t *testing.T) {
	data, err := json.Marshal([]JSONFloat{1.5, JSONFloat(math.Inf(1))})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[1.5,null]" {
		t.Errorf("got %s", data)
	}
}
