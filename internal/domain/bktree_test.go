package domain

import (
	"math/rand"
	"sort"
	"testing"
	"time"
)

// fpWithBits builds a fingerprint with exactly the given bits set.
func fpWithBits(bits ...int) Fingerprint {
	var fp Fingerprint
	for _, b := range bits {
		fp[b/64] |= 1 << (b % 64)
	}
	return fp
}

// flipBits returns fp with n randomly chosen bits flipped. Positions may
// repeat, so the resulting distance is at most n.
func flipBits(fp Fingerprint, rng *rand.Rand, n int) Fingerprint {
	for i := 0; i < n; i++ {
		b := rng.Intn(FingerprintBits)
		fp[b/64] ^= 1 << (b % 64)
	}
	return fp
}

func testRecord(id int, fp Fingerprint) *Record {
	return &Record{ID: id, Path: "img.jpg", Fingerprint: fp, Size: 1, ModTime: time.Unix(0, 0)}
}

// clusteredRecords produces records that form tight clusters with a few
// loners, so low thresholds still find matches.
func clusteredRecords(rng *rand.Rand, n int) []*Record {
	records := make([]*Record, 0, n)
	var base Fingerprint
	for i := 0; i < n; i++ {
		if i%5 == 0 {
			base = Fingerprint{rng.Uint64(), rng.Uint64(), rng.Uint64(), rng.Uint64()}
		}
		records = append(records, testRecord(i, flipBits(base, rng, rng.Intn(30))))
	}
	return records
}

func sortedIDs(records []*Record) []int {
	ids := make([]int, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	sort.Ints(ids)
	return ids
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBKTreeWithinMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	records := clusteredRecords(rng, 200)

	var tree BKTree
	for _, r := range records {
		tree.Insert(r)
	}
	if tree.Size() != len(records) {
		t.Fatalf("expected size %d, got %d", len(records), tree.Size())
	}

	for _, threshold := range []int{0, 1, 5, 20, 64, 128, FingerprintBits} {
		for _, probe := range records {
			var want []*Record
			for _, r := range records {
				if probe.Fingerprint.Distance(r.Fingerprint) <= threshold {
					want = append(want, r)
				}
			}
			got := tree.Within(probe.Fingerprint, threshold)
			if !equalIDs(sortedIDs(got), sortedIDs(want)) {
				t.Fatalf("threshold %d, probe %d: tree returned %v, linear scan %v",
					threshold, probe.ID, sortedIDs(got), sortedIDs(want))
			}
		}
	}
}

func TestBKTreeInsertionOrderIrrelevant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	records := clusteredRecords(rng, 100)

	var forward BKTree
	for _, r := range records {
		forward.Insert(r)
	}

	shuffled := make([]*Record, len(records))
	copy(shuffled, records)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	var reordered BKTree
	for _, r := range shuffled {
		reordered.Insert(r)
	}

	for _, probe := range records {
		a := sortedIDs(forward.Within(probe.Fingerprint, 20))
		b := sortedIDs(reordered.Within(probe.Fingerprint, 20))
		if !equalIDs(a, b) {
			t.Fatalf("probe %d: insertion order changed results: %v vs %v", probe.ID, a, b)
		}
	}
}

func TestBKTreeEmpty(t *testing.T) {
	var tree BKTree
	if got := tree.Within(Fingerprint{}, FingerprintBits); len(got) != 0 {
		t.Errorf("expected no matches from empty tree, got %d", len(got))
	}
	if tree.Size() != 0 {
		t.Errorf("expected size 0, got %d", tree.Size())
	}
}

func TestBKTreeThresholdZero(t *testing.T) {
	a := testRecord(0, fpWithBits())
	b := testRecord(1, fpWithBits())
	c := testRecord(2, fpWithBits(3))

	var tree BKTree
	tree.Insert(a)
	tree.Insert(b)
	tree.Insert(c)

	got := tree.Within(a.Fingerprint, 0)
	if !equalIDs(sortedIDs(got), []int{0, 1}) {
		t.Errorf("expected exact matches [0 1], got %v", sortedIDs(got))
	}
}
