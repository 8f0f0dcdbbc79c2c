package engine

import (
	"github.com/kestrel-tc/zeropointone/internal/board"
)

// Bound indicates which side of the search window a stored score bounds.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower
	BoundUpper
)

// entry is one transposition-table slot (spec.md §3's TT entry shape).
type entry struct {
	tag   uint32
	move  board.Move
	score int16
	depth int8
	bound Bound
	epoch uint8
}

// bucketSize is the number of entries probed/replaced together (spec.md
// §4.5: "Power-of-two bucket count ... probe scans 4 entries").
const bucketSize = 4

type bucket struct {
	entries [bucketSize]entry
}

// TranspositionTable is a bucketed hash table of search results, indexed
// by the hash's low bits with a 32-bit tag from the high bits verifying
// each entry (spec.md §4.5).
type TranspositionTable struct {
	buckets []bucket
	mask    uint64
	epoch   uint8

	hits, probes uint64
}

// NewTranspositionTable allocates a table sized to approximately sizeMB
// megabytes, rounded down to a power-of-two bucket count.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	bucketBytes := uint64(bucketSize * 16) // rough entry size, mirrors the teacher's estimate
	numBuckets := (uint64(sizeMB) * 1024 * 1024) / bucketBytes
	numBuckets = roundDownToPowerOf2(numBuckets)
	if numBuckets == 0 {
		numBuckets = 1
	}
	return &TranspositionTable{
		buckets: make([]bucket, numBuckets),
		mask:    numBuckets - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe scans hash's bucket for a matching tag.
func (tt *TranspositionTable) Probe(hash uint64) (entry, bool) {
	tt.probes++
	idx := hash & tt.mask
	tag := uint32(hash >> 32)
	b := &tt.buckets[idx]
	for i := range b.entries {
		if b.entries[i].bound != BoundNone && b.entries[i].tag == tag {
			tt.hits++
			return b.entries[i], true
		}
	}
	return entry{}, false
}

// Store writes a result into hash's bucket: an entry already matching
// the tag is updated in place; otherwise the least valuable entry in the
// bucket is evicted per spec.md §4.5's replacement order (empty, then
// stale-epoch, then shallowest depth, then any equal candidate).
func (tt *TranspositionTable) Store(hash uint64, depth, score int, bound Bound, move board.Move) {
	idx := hash & tt.mask
	tag := uint32(hash >> 32)
	b := &tt.buckets[idx]

	slot := -1
	for i := range b.entries {
		if b.entries[i].tag == tag {
			slot = i
			break
		}
	}
	if slot == -1 {
		slot = 0
		for i := 1; i < bucketSize; i++ {
			if replacementValue(&b.entries[i], tt.epoch) < replacementValue(&b.entries[slot], tt.epoch) {
				slot = i
			}
		}
	}
	b.entries[slot] = entry{
		tag:   tag,
		move:  move,
		score: int16(score),
		depth: int8(depth),
		bound: bound,
		epoch: tt.epoch,
	}
}

// replacementValue ranks how replaceable an entry is; lower sorts first.
func replacementValue(e *entry, curEpoch uint8) int {
	if e.bound == BoundNone {
		return -1 << 30
	}
	if e.epoch != curEpoch {
		return -1 << 20
	}
	return int(e.depth)
}

// NewSearch increments the epoch counter, making every entry from the
// previous root search preferentially replaceable.
func (tt *TranspositionTable) NewSearch() {
	tt.epoch++
}

// Clear empties the table and resets statistics.
func (tt *TranspositionTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = bucket{}
	}
	tt.epoch = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille of entries in the sampled buckets that hold
// a result from the current epoch.
func (tt *TranspositionTable) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > tt.mask+1 {
		sampleSize = int(tt.mask + 1)
	}
	used := 0
	for i := 0; i < sampleSize; i++ {
		for _, e := range tt.buckets[i].entries {
			if e.bound != BoundNone && e.epoch == tt.epoch {
				used++
			}
		}
	}
	return (used * 1000) / (sampleSize * bucketSize)
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of buckets in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.mask + 1
}

// AdjustScoreFromTT converts a mate score stored relative to the TT node
// back to one relative to the current root ply.
func AdjustScoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT converts a root-relative mate score into one relative
// to the node being stored, so it remains valid if reused from a
// different ply later.
func AdjustScoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
