package roadgraph

import "testing"

func TestLengthCategoryBoundaries(t *testing.T) {
	cases := []struct {
		tiles int
		want  RoadLengthCategory
	}{
		{3, 0},
		{4, 1},
		{6, 2},
		{7, 3},
		{10, 4},
		{13, 5},
		{18, 6},
		{24, 7},
	}
	for _, c := range cases {
		if got := LengthCategory(c.tiles); got != c.want {
			t.Errorf("LengthCategory(%d) = %d, want %d", c.tiles, got, c.want)
		}
	}
}

func TestMaxTransportersMatchesCategoryTable(t *testing.T) {
	want := [8]int{1, 2, 3, 4, 6, 8, 11, 15}
	if MaxTransporters != want {
		t.Errorf("MaxTransporters = %v, want %v", MaxTransporters, want)
	}
}
