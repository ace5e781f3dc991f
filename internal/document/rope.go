package document

import (
	"strings"
	"unicode/utf8"
)

// maxLeaf bounds the size of a leaf chunk in bytes. Leaves are always cut on
// rune boundaries so a rune never spans two leaves.
const maxLeaf = 512

// node is an immutable rope node. Internal nodes always have two children;
// leaves carry text. Splits and joins build new nodes and share the rest, so a
// node is never modified after construction.
type node struct {
	left, right *node
	text        string

	bytes  int
	chars  int
	lines  int // newline count
	height int
}

func newLeaf(s string) *node {
	return &node{
		text:   s,
		bytes:  len(s),
		chars:  utf8.RuneCountInString(s),
		lines:  strings.Count(s, "\n"),
		height: 1,
	}
}

func newBranch(l, r *node) *node {
	return &node{
		left:   l,
		right:  r,
		bytes:  l.bytes + r.bytes,
		chars:  l.chars + r.chars,
		lines:  l.lines + r.lines,
		height: max(l.height, r.height) + 1,
	}
}

func (n *node) isLeaf() bool { return n.left == nil }

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func size(n *node) int {
	if n == nil {
		return 0
	}
	return n.bytes
}

// build returns a balanced rope holding s.
func build(s string) *node {
	if s == "" {
		return nil
	}
	leaves := make([]*node, 0, len(s)/maxLeaf+1)
	for len(s) > 0 {
		cut := len(s)
		if cut > maxLeaf {
			cut = maxLeaf
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxLeaf
			}
		}
		leaves = append(leaves, newLeaf(s[:cut]))
		s = s[cut:]
	}
	return buildLeaves(leaves)
}

func buildLeaves(leaves []*node) *node {
	switch len(leaves) {
	case 0:
		return nil
	case 1:
		return leaves[0]
	}
	mid := len(leaves) / 2
	return newBranch(buildLeaves(leaves[:mid]), buildLeaves(leaves[mid:]))
}

// join concatenates two ropes keeping the AVL height bound.
func join(l, r *node) *node {
	if size(l) == 0 {
		return r
	}
	if size(r) == 0 {
		return l
	}
	if l.isLeaf() && r.isLeaf() && l.bytes+r.bytes <= maxLeaf {
		return newLeaf(l.text + r.text)
	}
	switch {
	case l.height > r.height+1:
		return rebalance(l.left, join(l.right, r))
	case r.height > l.height+1:
		return rebalance(join(l, r.left), r.right)
	}
	return newBranch(l, r)
}

// rebalance builds a branch over l and r, rotating when their heights differ
// by two.
func rebalance(l, r *node) *node {
	switch {
	case height(l) > height(r)+1:
		if height(l.left) >= height(l.right) {
			return newBranch(l.left, newBranch(l.right, r))
		}
		return newBranch(newBranch(l.left, l.right.left), newBranch(l.right.right, r))
	case height(r) > height(l)+1:
		if height(r.right) >= height(r.left) {
			return newBranch(newBranch(l, r.left), r.right)
		}
		return newBranch(newBranch(l, r.left.left), newBranch(r.left.right, r.right))
	}
	return newBranch(l, r)
}

// split cuts n at byte offset i. i must be a rune boundary.
func split(n *node, i int) (*node, *node) {
	if n == nil {
		return nil, nil
	}
	if i <= 0 {
		return nil, n
	}
	if i >= n.bytes {
		return n, nil
	}
	if n.isLeaf() {
		return newLeaf(n.text[:i]), newLeaf(n.text[i:])
	}
	switch {
	case i < n.left.bytes:
		ll, lr := split(n.left, i)
		return ll, join(lr, n.right)
	case i == n.left.bytes:
		return n.left, n.right
	}
	rl, rr := split(n.right, i-n.left.bytes)
	return join(n.left, rl), rr
}

// byteAt returns the byte at offset i < n.bytes.
func byteAt(n *node, i int) byte {
	for !n.isLeaf() {
		if i < n.left.bytes {
			n = n.left
		} else {
			i -= n.left.bytes
			n = n.right
		}
	}
	return n.text[i]
}

// leafAt returns the leaf holding offset i and the offset inside it.
func leafAt(n *node, i int) (*node, int) {
	for !n.isLeaf() {
		if i < n.left.bytes {
			n = n.left
		} else {
			i -= n.left.bytes
			n = n.right
		}
	}
	return n, i
}

// newlinesBefore counts '\n' bytes in [0, i).
func newlinesBefore(n *node, i int) int {
	count := 0
	for n != nil {
		if n.isLeaf() {
			return count + strings.Count(n.text[:i], "\n")
		}
		if i <= n.left.bytes {
			n = n.left
			continue
		}
		count += n.left.lines
		i -= n.left.bytes
		n = n.right
	}
	return count
}

// offsetAfterNewline returns the byte offset just past the k-th newline
// (k >= 1, k <= n.lines).
func offsetAfterNewline(n *node, k int) int {
	off := 0
	for !n.isLeaf() {
		if k <= n.left.lines {
			n = n.left
			continue
		}
		k -= n.left.lines
		off += n.left.bytes
		n = n.right
	}
	idx := 0
	for ; k > 0; k-- {
		idx += strings.IndexByte(n.text[idx:], '\n') + 1
	}
	return off + idx
}

// charsBefore counts runes in [0, i).
func charsBefore(n *node, i int) int {
	count := 0
	for n != nil {
		if n.isLeaf() {
			return count + utf8.RuneCountInString(n.text[:i])
		}
		if i <= n.left.bytes {
			n = n.left
			continue
		}
		count += n.left.chars
		i -= n.left.bytes
		n = n.right
	}
	return count
}

// charToByte maps a rune index (<= n.chars) to its byte offset.
func charToByte(n *node, c int) int {
	off := 0
	for n != nil {
		if n.isLeaf() {
			for i := range n.text {
				if c == 0 {
					return off + i
				}
				c--
			}
			return off + n.bytes
		}
		if c <= n.left.chars {
			n = n.left
			continue
		}
		c -= n.left.chars
		off += n.left.bytes
		n = n.right
	}
	return off
}

// walk calls fn for each leaf overlapping [start, end) with the overlapping
// part of its text. It stops early when fn returns false.
func walk(n *node, start, end int, fn func(string) bool) bool {
	if n == nil || start >= end {
		return true
	}
	if n.isLeaf() {
		return fn(n.text[max(start, 0):min(end, n.bytes)])
	}
	lb := n.left.bytes
	if start < lb {
		if !walk(n.left, start, min(end, lb), fn) {
			return false
		}
	}
	if end > lb {
		return walk(n.right, max(start-lb, 0), end-lb, fn)
	}
	return true
}
