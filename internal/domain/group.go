package domain

// Group is one set of visually duplicate records. Membership is a
// connected component under "distance <= threshold": every member is
// within threshold of some other member, not necessarily of all of them.
// A group always holds at least two records, ordered by ID.
type Group struct {
	Records []*Record
}

// Original picks the member to keep: largest file first, then earliest
// modification time, then shortest path. Any remaining tie goes to the
// earliest member in group order.
func (g Group) Original() *Record {
	best := g.Records[0]
	for _, r := range g.Records[1:] {
		if betterOriginal(r, best) {
			best = r
		}
	}
	return best
}

// Duplicates returns the members that are not the original, in group order.
func (g Group) Duplicates() []*Record {
	orig := g.Original()
	dups := make([]*Record, 0, len(g.Records)-1)
	for _, r := range g.Records {
		if r.ID != orig.ID {
			dups = append(dups, r)
		}
	}
	return dups
}

func betterOriginal(a, b *Record) bool {
	if a.Size != b.Size {
		return a.Size > b.Size
	}
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.Before(b.ModTime)
	}
	return len(a.Path) < len(b.Path)
}

// GroupRecords partitions records into duplicate groups at the given
// Hamming threshold. Every record is indexed first, then each one is
// queried against the finished tree and unioned with its matches, so
// membership never depends on scan order. Components with fewer than two
// members are dropped. Each record's ID must equal its index in records.
//
// Groups come back ordered by their first member's ID, members by ID.
func GroupRecords(records []*Record, threshold int) []Group {
	if len(records) < 2 {
		return nil
	}

	var tree BKTree
	for _, r := range records {
		tree.Insert(r)
	}

	uf := NewUnionFind(len(records))
	for _, r := range records {
		for _, match := range tree.Within(r.Fingerprint, threshold) {
			if match.ID != r.ID {
				uf.Union(r.ID, match.ID)
			}
		}
	}

	members := make(map[int][]*Record)
	for _, r := range records {
		root := uf.Find(r.ID)
		members[root] = append(members[root], r)
	}

	var groups []Group
	for _, r := range records {
		ms := members[uf.Find(r.ID)]
		if len(ms) < 2 || ms[0].ID != r.ID {
			continue
		}
		groups = append(groups, Group{Records: ms})
	}
	return groups
}
