package atlaspack

import "testing"

func TestAlignUpRoundsToMultiple(t *testing.T) {
	cases := []struct{ v, align, want int }{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 4, 8},
		{10, 1, 10},
		{10, 0, 10},
	}
	for _, c := range cases {
		if got := alignUp(c.v, c.align); got != c.want {
			t.Errorf("alignUp(%d, %d) = %d, want %d", c.v, c.align, got, c.want)
		}
	}
}

func TestDefaultOptionsMatchSpecDefaults(t *testing.T) {
	o := defaultOptions()
	if o.alignX != 1 || o.alignY != 1 {
		t.Fatalf("default alignment = (%d,%d), want (1,1)", o.alignX, o.alignY)
	}
	if o.smallThreshold != 32 {
		t.Fatalf("default small threshold = %d, want 32", o.smallThreshold)
	}
	if o.largeThreshold != 256 {
		t.Fatalf("default large threshold = %d, want 256", o.largeThreshold)
	}
}

func TestThresholdsFeedFreelistBucketCount(t *testing.T) {
	o := defaultOptions()
	if got := len(o.thresholds()); got != 2 {
		t.Fatalf("thresholds() len = %d, want 2", got)
	}
}
