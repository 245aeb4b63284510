package domain

import "testing"

func TestUnionFind(t *testing.T) {
	t.Run("elements start disjoint", func(t *testing.T) {
		uf := NewUnionFind(4)
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				if uf.Connected(i, j) {
					t.Errorf("expected %d and %d to start disjoint", i, j)
				}
			}
		}
	})

	t.Run("union connects transitively", func(t *testing.T) {
		uf := NewUnionFind(5)
		uf.Union(0, 1)
		uf.Union(1, 2)

		if !uf.Connected(0, 2) {
			t.Errorf("expected 0 and 2 connected through 1")
		}
		if uf.Connected(0, 3) {
			t.Errorf("expected 3 to stay separate")
		}
	})

	t.Run("repeated unions are stable", func(t *testing.T) {
		uf := NewUnionFind(3)
		uf.Union(0, 1)
		uf.Union(0, 1)
		uf.Union(1, 0)

		if !uf.Connected(0, 1) || uf.Connected(0, 2) {
			t.Errorf("repeated unions changed connectivity")
		}
	})

	t.Run("representative is its own parent", func(t *testing.T) {
		uf := NewUnionFind(16)
		for i := 0; i < 15; i++ {
			uf.Union(i, i+1)
		}
		root := uf.Find(0)
		for i := 0; i < 16; i++ {
			if uf.Find(i) != root {
				t.Errorf("expected %d to share root %d, got %d", i, root, uf.Find(i))
			}
		}
		if uf.Find(root) != root {
			t.Errorf("expected root %d to be its own parent", root)
		}
	})
}
