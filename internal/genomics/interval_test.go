package genomics

import "testing"

func TestInterval_Circular(t *testing.T) {
	testCases := []struct {
		name     string
		interval Interval
		want     bool
	}{
		{"unset", Interval{}, false},
		{"start only", Interval{Start: At(400)}, false},
		{"end only", Interval{End: At(100)}, false},
		{"ordered", Interval{At(100), At(400)}, false},
		{"empty", Interval{At(100), At(100)}, false},
		{"wrapped", Interval{At(400), At(100)}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got, want := tc.interval.Circular(), tc.want; got != want {
				t.Errorf("Wrong result for %v: got %v, want %v", tc.interval, got, want)
			}
		})
	}
}

func TestInterval_Offsets(t *testing.T) {
	testCases := []struct {
		name           string
		interval       Interval
		offset, length int64
	}{
		{"unset", Interval{}, 0, -1},
		{"start only", Interval{Start: At(25)}, 25, -1},
		{"end only", Interval{End: At(50)}, 0, 50},
		{"both", Interval{At(25), At(50)}, 25, 25},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			offset, length := tc.interval.Offsets()
			if offset != tc.offset || length != tc.length {
				t.Errorf("Wrong offsets for %v: got (%d, %d), want (%d, %d)", tc.interval, offset, length, tc.offset, tc.length)
			}
		})
	}
}
