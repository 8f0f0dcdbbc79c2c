package board

import "math/rand"

// zobristSeed is fixed so every process derives the identical key table;
// hashes are only ever compared within a single running engine, never
// persisted across builds.
const zobristSeed = 0x5A0B1A5DC0FFEE

var (
	// pieceKey[sq][coloredPiece] covers all 16 ColoredPiece encodings
	// (5 piece types x 2 colors, packed into a nibble), indexed densely.
	pieceKey [64][16]uint64

	// capturedKey[color][piece][count] covers captured counts 0..16: a side
	// can hold up to both colors' pieces of a type (at most 2x8 alfils).
	capturedKey [2][NumPieces][17]uint64

	stageKey [5]uint64
	sideKey  [2]uint64
)

func init() {
	rng := rand.New(rand.NewSource(zobristSeed))
	for sq := 0; sq < 64; sq++ {
		for cp := 0; cp < 16; cp++ {
			pieceKey[sq][cp] = rng.Uint64()
		}
	}
	for c := 0; c < 2; c++ {
		for pt := 0; pt < NumPieces; pt++ {
			for n := range capturedKey[c][pt] {
				capturedKey[c][pt][n] = rng.Uint64()
			}
		}
	}
	for s := range stageKey {
		stageKey[s] = rng.Uint64()
	}
	for c := range sideKey {
		sideKey[c] = rng.Uint64()
	}
}

// PieceKey returns the hash component for a colored piece sitting on sq.
func PieceKey(sq Square, cp ColoredPiece) uint64 {
	return pieceKey[sq][cp&0xF]
}

// CapturedKey returns the hash component for color c holding n captured
// pieces of type p in hand.
func CapturedKey(c Color, p Piece, n int) uint64 {
	return capturedKey[c][p][n]
}

// StageKey returns the hash component for the game stage.
func StageKey(s Stage) uint64 {
	return stageKey[s]
}

// SideKey returns the hash component for the side to move.
func SideKey(c Color) uint64 {
	return sideKey[c]
}
