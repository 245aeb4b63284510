package domain

// BKTree indexes records by fingerprint for range queries in Hamming
// space. The zero value is an empty tree ready for use. Built once per
// scan and queried read-only afterwards; not safe for concurrent mutation.
type BKTree struct {
	root *bkNode
	size int
}

type bkNode struct {
	rec      *Record
	children map[int]*bkNode // Keyed by Hamming distance to this node
}

// Insert adds rec to the tree. Insertion order shapes the tree but never
// changes what Within returns.
func (t *BKTree) Insert(rec *Record) {
	t.size++
	if t.root == nil {
		t.root = &bkNode{rec: rec}
		return
	}
	node := t.root
	for {
		d := rec.Fingerprint.Distance(node.rec.Fingerprint)
		child, ok := node.children[d]
		if !ok {
			if node.children == nil {
				node.children = make(map[int]*bkNode)
			}
			node.children[d] = &bkNode{rec: rec}
			return
		}
		node = child
	}
}

// Size returns the number of records inserted.
func (t *BKTree) Size() int {
	return t.size
}

// Within returns all records whose fingerprint is at most threshold bits
// away from fp, in no particular order. The result set is identical to a
// linear scan over every inserted record: subtrees are pruned only when
// the triangle inequality proves they cannot contain a match.
func (t *BKTree) Within(fp Fingerprint, threshold int) []*Record {
	if t.root == nil {
		return nil
	}
	var matches []*Record
	stack := []*bkNode{t.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d := fp.Distance(node.rec.Fingerprint)
		if d <= threshold {
			matches = append(matches, node.rec)
		}
		for k, child := range node.children {
			if k >= d-threshold && k <= d+threshold {
				stack = append(stack, child)
			}
		}
	}
	return matches
}
