package network

import "testing"

func TestNewPopulationSkipCompresses(t *testing.T) {
	gen := func(i uint64) (int, bool) {
		if i == 2 {
			return 0, false
		}
		return int(i), true
	}
	p := NewPopulation(gen, 5)
	if p.Size() != 4 {
		t.Fatalf("expected 4 neurons after skipping slot 2, got %d", p.Size())
	}
	want := []int{0, 1, 3, 4}
	for i, w := range want {
		if *p.At(i) != w {
			t.Fatalf("index %d: want %d got %d", i, w, *p.At(i))
		}
	}
}

func TestRemoveNeuronsPreservesSurvivorOrder(t *testing.T) {
	gen := func(i uint64) (int, bool) { return int(i), true }
	p := NewPopulation(gen, 5)
	removed := p.RemoveNeurons([]int{1, 3})
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	want := []int{0, 2, 4}
	if p.Size() != len(want) {
		t.Fatalf("expected size %d, got %d", len(want), p.Size())
	}
	for i, w := range want {
		if *p.At(i) != w {
			t.Fatalf("index %d: want %d got %d", i, w, *p.At(i))
		}
	}
}

func TestAddNeuronsContinuesIndexSequence(t *testing.T) {
	var seen []uint64
	gen := func(i uint64) (int, bool) {
		seen = append(seen, i)
		return int(i), true
	}
	p := NewPopulation(gen, 3)
	p.AddNeurons(gen, 2)
	if p.Size() != 5 {
		t.Fatalf("expected size 5, got %d", p.Size())
	}
	want := []uint64{0, 1, 2, 3, 4}
	for i, w := range want {
		if seen[i] != w {
			t.Fatalf("generator index %d: want %d got %d", i, w, seen[i])
		}
	}
}
