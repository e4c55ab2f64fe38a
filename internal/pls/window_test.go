package pls

import "testing"

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		skip     uint
		count    int
		expected Window
	}{
		{"all", 5, 0, 10, Window{0, 5}},
		{"skip and clamp", 4, 1, 10, Window{1, 3}},
		{"exact", 4, 1, 3, Window{1, 3}},
		{"short count", 10, 2, 3, Window{2, 3}},
		{"infinite count", 7, 3, -1, Window{3, 4}},
		{"skip past end", 3, 5, 10, Window{3, 0}},
		{"skip equals total", 3, 3, 1, Window{3, 0}},
		{"empty list", 0, 0, 10, Window{0, 0}},
		{"huge skip", 3, ^uint(0), 1, Window{3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ComputeWindow(tt.total, tt.skip, tt.count)
			if w != tt.expected {
				t.Errorf("ComputeWindow(%d, %d, %d) = %+v, want %+v", tt.total, tt.skip, tt.count, w, tt.expected)
			}
			if w.Start+w.Count > tt.total && tt.total > 0 {
				t.Errorf("window %+v exceeds total %d", w, tt.total)
			}
		})
	}
}

func TestWindowBounds(t *testing.T) {
	for total := range 6 {
		for skip := range uint(8) {
			for _, count := range []int{-1, 1, 2, 5, 9} {
				w := ComputeWindow(total, skip, count)
				if w.Start+w.Count > total {
					t.Fatalf("total=%d skip=%d count=%d: window %+v exceeds total", total, skip, count, w)
				}
				if count > 0 && w.Count > count {
					t.Fatalf("total=%d skip=%d count=%d: emitted %d", total, skip, count, w.Count)
				}
				if w.Empty() != (int(skip) >= total) {
					t.Fatalf("total=%d skip=%d count=%d: Empty() = %v", total, skip, count, w.Empty())
				}
			}
		}
	}
}

func TestWindowRemaining(t *testing.T) {
	w := Window{Start: 1, Count: 3}
	got := []uint{w.Remaining(0), w.Remaining(1), w.Remaining(2)}
	want := []uint{2, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Remaining(%d) = %d, want %d", i, got[i], want[i])
		}
	}

	single := Window{Start: 0, Count: 1}
	if single.Remaining(0) != 0 {
		t.Errorf("single item should have remaining 0, got %d", single.Remaining(0))
	}
}
