// Package bktree indexes 64-bit hashes for Hamming-distance range queries.
package bktree

import (
	"sort"

	"github.com/xschemadev/imgdedup/hasher"
)

// Match is an indexed key found within range of a query.
type Match struct {
	Key      string
	Distance int
}

type node struct {
	key      string
	hash     hasher.Hash
	children map[int]*node
}

// Tree is a BK-tree. The zero value is an empty tree ready to use.
// It is not safe for concurrent mutation.
type Tree struct {
	root *node
	size int
}

// Len returns the number of keys in the tree.
func (t *Tree) Len() int {
	return t.size
}

// Add indexes key under hash. Keys are not deduplicated.
func (t *Tree) Add(key string, hash hasher.Hash) {
	t.size++
	n := &node{key: key, hash: hash}
	if t.root == nil {
		t.root = n
		return
	}

	cur := t.root
	for {
		d := cur.hash.Distance(hash)
		child, ok := cur.children[d]
		if !ok {
			if cur.children == nil {
				cur.children = make(map[int]*node)
			}
			cur.children[d] = n
			return
		}
		cur = child
	}
}

// Search returns every key whose hash is within maxDistance of hash, ordered
// by distance then key.
func (t *Tree) Search(hash hasher.Hash, maxDistance int) []Match {
	if t.root == nil || maxDistance < 0 {
		return nil
	}

	var matches []Match
	stack := []*node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d := n.hash.Distance(hash)
		if d <= maxDistance {
			matches = append(matches, Match{Key: n.key, Distance: d})
		}
		// Triangle inequality: only children at distance within
		// [d-maxDistance, d+maxDistance] of n can hold matches.
		for cd, child := range n.children {
			if cd >= d-maxDistance && cd <= d+maxDistance {
				stack = append(stack, child)
			}
		}
	}

	SortMatches(matches)
	return matches
}

// SortMatches orders matches by distance, then key.
func SortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Key < matches[j].Key
	})
}
