package risk

import "testing"

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Band
	}{
		{100, BandCritical},
		{90, BandCritical},
		{89.999, BandHigh},
		{75, BandHigh},
		{74.999, BandModerate},
		{50, BandModerate},
		{49.999, BandLowModerate},
		{25, BandLowModerate},
		{24.999, BandLow},
		{0, BandLow},
	}
	for _, tc := range cases {
		if got := Classify(tc.score).Band; got != tc.want {
			t.Fatalf("score %v: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	prev := Classify(0).Band.Rank()
	for s := 0.0; s <= 100; s += 0.25 {
		rank := Classify(s).Band.Rank()
		if rank < prev {
			t.Fatalf("band rank decreased at score %v", s)
		}
		prev = rank
	}
}

func TestClassifyColorAndIconFollowBand(t *testing.T) {
	for _, s := range []float64{3, 30, 60, 80, 95} {
		c := Classify(s)
		if c.Color != c.Band.Color() || c.Icon != c.Band.Icon() {
			t.Fatalf("score %v: display attributes drifted from band %s: %+v", s, c.Band, c)
		}
		if c.Color == "" || c.Icon == "" || c.RecommendedAction == "" {
			t.Fatalf("score %v: incomplete classification %+v", s, c)
		}
	}
}

func TestBandsOrderedHighToLow(t *testing.T) {
	bands := Bands()
	if len(bands) != 5 {
		t.Fatalf("expected 5 bands, got %d", len(bands))
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Band.Threshold() >= bands[i-1].Band.Threshold() {
			t.Fatalf("bands not ordered by threshold: %s then %s", bands[i-1].Band, bands[i].Band)
		}
	}
	if Band("bogus").Threshold() != -1 {
		t.Fatalf("expected unknown band threshold -1")
	}
}
