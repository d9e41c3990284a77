package memdb

import (
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/tchap/go-patricia/v2/patricia"
)

// trieAdd adds pre to the sorted posting list of key.
func trieAdd(t *patricia.Trie, key string, pre int) {
	k := patricia.Prefix(key)
	item := t.Get(k)
	if item == nil {
		t.Insert(k, []int{pre})
		return
	}
	pres := item.([]int)
	if i, found := slices.BinarySearch(pres, pre); !found {
		t.Set(k, slices.Insert(pres, i, pre))
	}
}

type posting struct {
	token string
	pres  []int
}

// ftIndex maps token hashes to posting lists. Tokens sharing a hash keep separate postings.
type ftIndex struct {
	buckets map[uint64][]posting
}

func newFTIndex() *ftIndex {
	return &ftIndex{buckets: make(map[uint64][]posting)}
}

func (ix *ftIndex) add(token string, pre int) {
	h := xxhash.Sum64String(token)
	bucket := ix.buckets[h]
	for i := range bucket {
		if bucket[i].token != token {
			continue
		}
		if n := len(bucket[i].pres); n == 0 || bucket[i].pres[n-1] != pre {
			bucket[i].pres = append(bucket[i].pres, pre)
		}
		return
	}
	ix.buckets[h] = append(bucket, posting{token: token, pres: []int{pre}})
}

func (ix *ftIndex) postings(token string) []int {
	for _, p := range ix.buckets[xxhash.Sum64String(token)] {
		if p.token == token {
			return p.pres
		}
	}
	return nil
}

// lookup returns the nodes containing every token.
func (ix *ftIndex) lookup(tokens []string) []int {
	if len(tokens) == 0 {
		return nil
	}
	result := ix.postings(tokens[0])
	for _, tok := range tokens[1:] {
		if len(result) == 0 {
			return nil
		}
		result = intersect(result, ix.postings(tok))
	}
	return result
}

func intersect(a, b []int) []int {
	var out []int
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func mergeSorted(lists [][]int) []int {
	var out []int
	for _, l := range lists {
		out = append(out, l...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
