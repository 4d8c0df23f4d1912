package orderbook

import (
	"math/rand"
	"sort"
	"testing"
)

// checkRBProperties verifies the red-black invariants: root is black,
// no red node has a red child, and every root-to-leaf path carries the
// same number of black nodes. Returns the black height of the subtree.
func checkRBProperties(t *testing.T, tr *levelTree, n *treeNode) int {
	t.Helper()
	if n == tr.sentinel {
		return 1
	}
	if n.red && (n.left.red || n.right.red) {
		t.Fatalf("red node %d has a red child", n.price)
	}
	if n.left != tr.sentinel && n.left.price >= n.price {
		t.Fatalf("left child %d >= parent %d", n.left.price, n.price)
	}
	if n.right != tr.sentinel && n.right.price <= n.price {
		t.Fatalf("right child %d <= parent %d", n.right.price, n.price)
	}
	lh := checkRBProperties(t, tr, n.left)
	rh := checkRBProperties(t, tr, n.right)
	if lh != rh {
		t.Fatalf("black height mismatch at %d: %d vs %d", n.price, lh, rh)
	}
	if n.red {
		return lh
	}
	return lh + 1
}

func verifyTree(t *testing.T, tr *levelTree) {
	t.Helper()
	if tr.root.red {
		t.Fatal("root is red")
	}
	checkRBProperties(t, tr, tr.root)
}

func collectAscending(tr *levelTree) []int64 {
	var prices []int64
	tr.Ascending(func(lvl *PriceLevel) bool {
		prices = append(prices, lvl.Price)
		return true
	})
	return prices
}

func TestTreeUpsertFindDelete(t *testing.T) {
	tr := newLevelTree()

	if tr.Size() != 0 || tr.Min() != nil || tr.Max() != nil {
		t.Fatal("new tree not empty")
	}
	if tr.Find(100) != nil {
		t.Fatal("Find on empty tree returned a level")
	}

	lvl := tr.Upsert(100)
	if lvl == nil || lvl.Price != 100 {
		t.Fatalf("Upsert returned %v", lvl)
	}
	if tr.Upsert(100) != lvl {
		t.Fatal("second Upsert of same price created a new level")
	}
	if tr.Size() != 1 {
		t.Fatalf("size = %d, want 1", tr.Size())
	}
	if tr.Find(100) != lvl {
		t.Fatal("Find did not return the upserted level")
	}

	if !tr.Delete(100) {
		t.Fatal("Delete returned false for present price")
	}
	if tr.Delete(100) {
		t.Fatal("Delete returned true for absent price")
	}
	if tr.Size() != 0 || tr.Find(100) != nil {
		t.Fatal("tree not empty after delete")
	}
}

func TestTreeOrdering(t *testing.T) {
	tr := newLevelTree()
	prices := []int64{50, 20, 80, 10, 30, 70, 90, 25, 75}
	for _, p := range prices {
		tr.Upsert(p)
	}
	verifyTree(t, tr)

	want := append([]int64(nil), prices...)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	got := collectAscending(tr)
	if len(got) != len(want) {
		t.Fatalf("ascending walk visited %d levels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ascending[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if tr.Min().Price != 10 {
		t.Fatalf("min = %d, want 10", tr.Min().Price)
	}
	if tr.Max().Price != 90 {
		t.Fatalf("max = %d, want 90", tr.Max().Price)
	}

	var desc []int64
	tr.Descending(func(lvl *PriceLevel) bool {
		desc = append(desc, lvl.Price)
		return true
	})
	for i := range desc {
		if desc[i] != want[len(want)-1-i] {
			t.Fatalf("descending[%d] = %d", i, desc[i])
		}
	}
}

func TestTreeWalkEarlyStop(t *testing.T) {
	tr := newLevelTree()
	for _, p := range []int64{1, 2, 3, 4, 5} {
		tr.Upsert(p)
	}

	var visited int
	tr.Ascending(func(*PriceLevel) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Fatalf("visited %d levels, want 3", visited)
	}
}

func TestTreeRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := newLevelTree()
	present := make(map[int64]bool)

	for i := 0; i < 5000; i++ {
		p := int64(rng.Intn(500))
		if rng.Intn(3) == 0 {
			deleted := tr.Delete(p)
			if deleted != present[p] {
				t.Fatalf("Delete(%d) = %v, want %v", p, deleted, present[p])
			}
			delete(present, p)
		} else {
			lvl := tr.Upsert(p)
			if lvl.Price != p {
				t.Fatalf("Upsert(%d) returned level at %d", p, lvl.Price)
			}
			present[p] = true
		}
	}

	verifyTree(t, tr)
	if tr.Size() != len(present) {
		t.Fatalf("size = %d, want %d", tr.Size(), len(present))
	}

	got := collectAscending(tr)
	if len(got) != len(present) {
		t.Fatalf("walk visited %d, want %d", len(got), len(present))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("walk out of order at %d: %d >= %d", i, got[i-1], got[i])
		}
	}
	for _, p := range got {
		if !present[p] {
			t.Fatalf("walk visited deleted price %d", p)
		}
	}
}
