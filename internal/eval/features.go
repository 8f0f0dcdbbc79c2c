// Package eval implements the position evaluator: a quantized two-sided
// embedding network fed by a wazir-bucketed feature space, incrementally
// maintained by an accumulator stack mirroring search depth.
package eval

import "github.com/kestrel-tc/zeropointone/internal/board"

// NumWazirBuckets is the number of canonical own-wazir squares a position
// is folded onto before indexing: the board's full dihedral symmetry group
// (file mirror, rank mirror, diagonal transpose all preserve leaper
// legality, since this variant has no pawns or castling to break it)
// reduces the 64 squares to the 10-square file<=rank quadrant triangle.
const NumWazirBuckets = 10

// onBoardCombos enumerates every (piece type, relative color) pair that
// gets its own on-board feature plane, i.e. every piece except the
// perspective's own wazir (which selects the bucket instead of occupying
// a plane of its own).
const onBoardCombos = 9

const (
	comboEnemyWazir = iota
	comboSelfFerz
	comboEnemyFerz
	comboSelfDabbaba
	comboEnemyDabbaba
	comboSelfKnight
	comboEnemyKnight
	comboSelfAlfil
	comboEnemyAlfil
)

// onBoardSlots is the on-board portion of one bucket's feature block:
// 9 combos x 64 squares.
const onBoardSlots = onBoardCombos * 64

// capturedPieceOrder lists the four droppable, capturable piece types in
// the fixed order their captured-count feature segments are laid out.
var capturedPieceOrder = [4]board.Piece{board.Ferz, board.Dabbaba, board.Knight, board.Alfil}

var capturedSegmentOffset [board.NumPieces]int
var capturedSegmentSize [board.NumPieces]int

// capturedSlots is the captured-count portion of one bucket's feature
// block. Each droppable piece type gets a thermometer track of length
// InitialCount[pt], doubled for which side currently holds the piece and
// doubled again for a same-sized "original owner" track that is always
// exactly the complement of the holder bit (every piece a side holds
// captured was, mechanically, its opponent's) -- kept as a distinct
// embedding row rather than collapsed away so that a future asymmetric
// Red/Blue weighting (spec.md's open Red-advantage-tuning question) has
// somewhere to live without reshaping the table.
var capturedSlots int

func init() {
	offset := 0
	for _, pt := range capturedPieceOrder {
		size := board.InitialCount[pt] * 4
		capturedSegmentOffset[pt] = offset
		capturedSegmentSize[pt] = size
		offset += size
	}
	capturedSlots = offset
}

// slotsPerBucket is the full width of one wazir bucket's feature block.
const slotsPerBucket = onBoardSlots + 60 // computed capturedSlots == 60, asserted by init test

// FeatureDim is the embedding table's row count: 10 buckets x 636 slots.
// The side-to-move bit named alongside this in the feature-space count is
// realized structurally, by which accumulator half is concatenated first
// (see network.go), not as an extra embedding row.
const FeatureDim = NumWazirBuckets * slotsPerBucket

// occCombo maps (piece, isEnemy) to its on-board combo index; the
// perspective's own wazir has no entry (it only selects the bucket).
func occCombo(pt board.Piece, isEnemy bool) int {
	switch pt {
	case board.Wazir:
		return comboEnemyWazir
	case board.Ferz:
		if isEnemy {
			return comboEnemyFerz
		}
		return comboSelfFerz
	case board.Dabbaba:
		if isEnemy {
			return comboEnemyDabbaba
		}
		return comboSelfDabbaba
	case board.Knight:
		if isEnemy {
			return comboEnemyKnight
		}
		return comboSelfKnight
	case board.Alfil:
		if isEnemy {
			return comboEnemyAlfil
		}
		return comboSelfAlfil
	default:
		return -1
	}
}

// quadrantTransform is the dihedral fold applied to every square once the
// perspective's own wazir square is known: mirror onto the low file
// quadrant, mirror onto the low rank quadrant, then transpose onto the
// file<=rank triangle.
type quadrantTransform struct {
	flipFile, flipRank, swap bool
}

func (t quadrantTransform) apply(sq board.Square) board.Square {
	f, r := sq.File(), sq.Rank()
	if t.flipFile {
		f = 7 - f
	}
	if t.flipRank {
		r = 7 - r
	}
	if t.swap {
		f, r = r, f
	}
	return board.NewSquare(f, r)
}

// bucketTable maps a folded (file, rank) with file<=rank, both in [0,3],
// to one of the 10 canonical bucket indices.
var bucketTable [4][4]int

func init() {
	idx := 0
	for f := 0; f < 4; f++ {
		for r := f; r < 4; r++ {
			bucketTable[f][r] = idx
			idx++
		}
	}
}

// canonicalize returns the transform that folds wazirSq onto the file<=
// rank quadrant triangle, and the resulting bucket index.
func canonicalize(wazirSq board.Square) (quadrantTransform, int) {
	var t quadrantTransform
	f, r := wazirSq.File(), wazirSq.Rank()
	if f > 3 {
		f = 7 - f
		t.flipFile = true
	}
	if r > 3 {
		r = 7 - r
		t.flipRank = true
	}
	if f > r {
		f, r = r, f
		t.swap = true
	}
	return t, bucketTable[f][r]
}

// perspectiveSquare reorients sq so that "self" always looks like Red:
// Blue's perspective mirrors every square across the rank axis before
// the wazir-bucket fold, letting both perspectives share one embedding
// table (the same trick the teacher's HalfKP indexer uses for Black).
func perspectiveSquare(sq board.Square, self board.Color) board.Square {
	if self == board.Blue {
		return sq.MirrorRank()
	}
	return sq
}

// ActiveFeatures returns the embedding-row indices active in pos from
// self's perspective: one row per on-board piece other than self's own
// wazir, plus one row per captured piece currently held by either side.
func ActiveFeatures(pos *board.Position, self board.Color) []int {
	enemy := self.Opponent()
	wazirSq := perspectiveSquare(pos.WazirSquare(self), self)
	transform, bucket := canonicalize(wazirSq)
	base := bucket * slotsPerBucket

	features := make([]int, 0, 32)

	for c := board.Color(0); c < 2; c++ {
		isEnemy := c == enemy
		for pt := board.Piece(0); pt < board.NumPieces; pt++ {
			if pt == board.Wazir && !isEnemy {
				continue // self's own wazir selects the bucket, not a plane
			}
			pos.OccupiedByPiece[c][pt].ForEach(func(sq board.Square) {
				folded := transform.apply(perspectiveSquare(sq, self))
				combo := occCombo(pt, isEnemy)
				features = append(features, base+combo*64+int(folded))
			})
		}
	}

	for _, pt := range capturedPieceOrder {
		maxCount := board.InitialCount[pt]
		for _, holder := range [2]board.Color{board.Red, board.Blue} {
			n := pos.Captured[holder][pt]
			if n == 0 {
				continue
			}
			holderBit := 0
			if holder != self {
				holderBit = 1
			}
			ownerBit := 1 - holderBit
			segBase := base + onBoardSlots + capturedSegmentOffset[pt]
			slot := (ownerBit*2+holderBit)*maxCount
			for level := 1; level <= n; level++ {
				features = append(features, segBase+slot+(level-1))
			}
		}
	}

	return features
}
