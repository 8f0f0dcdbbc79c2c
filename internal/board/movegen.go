package board

// addUnique appends m only if it is not already present, preserving the
// "no duplicates across buckets" invariant spec.md §8 requires (a move
// eligible for more than one bucket, e.g. a jump-check that also lands on
// an escape-attack square, is only ever emitted once).
func addUnique(ml *MoveList, m Move) {
	if !ml.Contains(m) {
		ml.Add(m)
	}
}

// GenerateLegalMoves returns every legal move available to the side to
// move, with no bucket ordering guarantee. Used by tests, perft, and
// checkmate detection.
func (p *Position) GenerateLegalMoves() *MoveList {
	us := p.ToMove
	raw := NewMoveList()
	switch {
	case p.Stage == RedPseudo || p.Stage == BluePseudo:
		p.generatePseudoStageMoves(raw, us)
		return p.filterLegal(raw)
	case p.InCheck(us):
		p.generateEvasions(raw, us)
	default:
		p.generateCaptures(raw, us)
		p.generateDropChecks(raw, us)
		p.generateDropEscapeAttacks(raw, us)
		p.generateJumpChecks(raw, us)
		p.generateJumpEscapeAttacks(raw, us)
		p.generateQuietJumps(raw, us)
		p.generateQuietDrops(raw, us)
	}
	return p.filterLegal(raw)
}

// GenerateQuiescenceMoves returns evasions (if in check) or captures only,
// for the quiescence search tail (spec.md §4.6).
func (p *Position) GenerateQuiescenceMoves() *MoveList {
	us := p.ToMove
	raw := NewMoveList()
	if p.InCheck(us) {
		p.generateEvasions(raw, us)
	} else {
		p.generateCaptures(raw, us)
	}
	return p.filterLegal(raw)
}

// GenerateOrdered returns the legal moves ordered per spec.md §4.3/§4.7:
// the TT move first (if legal), then captures, then legal non-capture
// killers, then the remaining buckets (drop-checks, drop escape-attacks,
// jump-checks, jump escape-attacks, quiet jumps, quiet drops) in their
// natural order. Evasions, when in check, keep their own internal order
// (checking-piece captures, wazir captures, wazir quiet moves) with no
// TT/killer slotting — §4.3 only defines that ordering for the not-in-check
// buckets.
func (p *Position) GenerateOrdered(ttMove Move, killers [2]Move) *MoveList {
	us := p.ToMove

	if p.Stage == RedPseudo || p.Stage == BluePseudo {
		raw := NewMoveList()
		p.generatePseudoStageMoves(raw, us)
		return p.filterLegal(raw)
	}

	inCheck := p.InCheck(us)
	raw := NewMoveList()
	if inCheck {
		p.generateEvasions(raw, us)
		return p.filterLegal(raw)
	}

	p.generateCaptures(raw, us)
	p.generateDropChecks(raw, us)
	p.generateDropEscapeAttacks(raw, us)
	p.generateJumpChecks(raw, us)
	p.generateJumpEscapeAttacks(raw, us)
	p.generateQuietJumps(raw, us)
	p.generateQuietDrops(raw, us)
	legal := p.filterLegal(raw)

	ordered := NewMoveList()
	emitted := make(map[Move]bool, legal.Len())
	emit := func(m Move) {
		if !emitted[m] {
			ordered.Add(m)
			emitted[m] = true
		}
	}

	if ttMove != NoMove && legal.Contains(ttMove) {
		emit(ttMove)
	}
	for i := 0; i < legal.Len(); i++ {
		if m := legal.Get(i); m.IsCapture() {
			emit(m)
		}
	}
	for _, k := range killers {
		if k != NoMove && !k.IsCapture() && legal.Contains(k) {
			emit(k)
		}
	}
	for i := 0; i < legal.Len(); i++ {
		emit(legal.Get(i))
	}
	return ordered
}

// hasLegalMoves reports whether color c has at least one legal move right
// now, under ordinary Play-stage rules. Used by advanceStage to detect
// checkmate (c in check with no reply), which triggers the pseudo-move
// tail rather than ending the game outright.
func (p *Position) hasLegalMoves(c Color) bool {
	saved := p.ToMove
	p.ToMove = c
	n := p.GenerateLegalMoves().Len()
	p.ToMove = saved
	return n > 0
}

// filterLegal keeps only moves that do not leave the mover's own wazir in
// check (pseudomove-stage moves are exempt: they are legal by definition).
func (p *Position) filterLegal(raw *MoveList) *MoveList {
	result := NewMoveList()
	if p.Stage == RedPseudo || p.Stage == BluePseudo {
		for i := 0; i < raw.Len(); i++ {
			result.Add(raw.Get(i))
		}
		return result
	}
	mover := p.ToMove
	for i := 0; i < raw.Len(); i++ {
		m := raw.Get(i)
		undo := p.Make(m)
		if !p.InCheck(mover) {
			result.Add(m)
		}
		p.Unmake(undo)
	}
	return result
}

func (p *Position) generateCaptures(ml *MoveList, us Color) {
	enemy := us.Opponent()
	for ept := Piece(0); ept < NumPieces; ept++ {
		targets := p.OccupiedByPiece[enemy][ept]
		targets.ForEach(func(to Square) {
			for apt := Piece(0); apt < NumPieces; apt++ {
				attackers := reach1[apt][to] & p.OccupiedByPiece[us][apt]
				attackers.ForEach(func(from Square) {
					ml.Add(Move{Kind: KindAction, From: from, To: to, Piece: NewColoredPiece(apt, us), Captured: ept})
				})
			}
		})
	}
}

func (p *Position) generateDropChecks(ml *MoveList, us Color) {
	enemy := us.Opponent()
	ew := p.WazirSquare(enemy)
	empty := ^(p.OccupiedByColor[Red] | p.OccupiedByColor[Blue])
	for pt := Piece(0); pt < NumPieces; pt++ {
		if p.Captured[us][pt] == 0 {
			continue
		}
		dests := reach1[pt][ew] & empty
		dests.ForEach(func(to Square) {
			ml.Add(Move{Kind: KindAction, From: NoSquare, To: to, Piece: NewColoredPiece(pt, us), Captured: NoPiece})
		})
	}
}

func (p *Position) generateDropEscapeAttacks(ml *MoveList, us Color) {
	enemy := us.Opponent()
	ew := p.WazirSquare(enemy)
	empty := ^(p.OccupiedByColor[Red] | p.OccupiedByColor[Blue])
	for pt := Piece(0); pt < NumPieces; pt++ {
		if p.Captured[us][pt] == 0 {
			continue
		}
		dests := escDest[pt][ew] & empty
		dests.ForEach(func(to Square) {
			addUnique(ml, Move{Kind: KindAction, From: NoSquare, To: to, Piece: NewColoredPiece(pt, us), Captured: NoPiece})
		})
	}
}

func (p *Position) generateJumpChecks(ml *MoveList, us Color) {
	enemy := us.Opponent()
	ew := p.WazirSquare(enemy)
	occupied := p.OccupiedByColor[Red] | p.OccupiedByColor[Blue]
	for pt := Piece(0); pt < NumPieces; pt++ {
		froms := p.OccupiedByPiece[us][pt] & reach2[pt][ew]
		froms.ForEach(func(from Square) {
			dests := reach1[pt][from] & reach1[pt][ew] &^ occupied
			dests.ForEach(func(to Square) {
				addUnique(ml, Move{Kind: KindAction, From: from, To: to, Piece: NewColoredPiece(pt, us), Captured: NoPiece})
			})
		})
	}
}

func (p *Position) generateJumpEscapeAttacks(ml *MoveList, us Color) {
	enemy := us.Opponent()
	ew := p.WazirSquare(enemy)
	occupied := p.OccupiedByColor[Red] | p.OccupiedByColor[Blue]
	for pt := Piece(0); pt < NumPieces; pt++ {
		froms := p.OccupiedByPiece[us][pt] & escSrc[pt][ew]
		froms.ForEach(func(from Square) {
			dests := reach1[pt][from] & escDest[pt][ew] &^ occupied
			dests.ForEach(func(to Square) {
				addUnique(ml, Move{Kind: KindAction, From: from, To: to, Piece: NewColoredPiece(pt, us), Captured: NoPiece})
			})
		})
	}
}

func (p *Position) generateQuietJumps(ml *MoveList, us Color) {
	empty := ^(p.OccupiedByColor[Red] | p.OccupiedByColor[Blue])
	for pt := Piece(0); pt < NumPieces; pt++ {
		p.OccupiedByPiece[us][pt].ForEach(func(from Square) {
			dests := reach1[pt][from] & empty
			dests.ForEach(func(to Square) {
				addUnique(ml, Move{Kind: KindAction, From: from, To: to, Piece: NewColoredPiece(pt, us), Captured: NoPiece})
			})
		})
	}
}

func (p *Position) generateQuietDrops(ml *MoveList, us Color) {
	empty := ^(p.OccupiedByColor[Red] | p.OccupiedByColor[Blue])
	for pt := Piece(0); pt < NumPieces; pt++ {
		if p.Captured[us][pt] == 0 {
			continue
		}
		empty.ForEach(func(to Square) {
			addUnique(ml, Move{Kind: KindAction, From: NoSquare, To: to, Piece: NewColoredPiece(pt, us), Captured: NoPiece})
		})
	}
}

// generateEvasions emits, in order: captures of any checking piece, then
// wazir captures, then wazir non-capture moves. Leapers cannot be blocked,
// so there is no interposition bucket.
func (p *Position) generateEvasions(ml *MoveList, us Color) {
	enemy := us.Opponent()
	wsq := p.WazirSquare(us)
	checkers := p.AttackersOf(wsq, enemy)
	occupied := p.OccupiedByColor[Red] | p.OccupiedByColor[Blue]

	for ept := Piece(0); ept < NumPieces; ept++ {
		targets := checkers & p.OccupiedByPiece[enemy][ept]
		targets.ForEach(func(to Square) {
			for apt := Piece(0); apt < NumPieces; apt++ {
				attackers := reach1[apt][to] & p.OccupiedByPiece[us][apt]
				attackers.ForEach(func(from Square) {
					addUnique(ml, Move{Kind: KindAction, From: from, To: to, Piece: NewColoredPiece(apt, us), Captured: ept})
				})
			}
		})
	}

	for ept := Piece(0); ept < NumPieces; ept++ {
		targets := reach1[Wazir][wsq] & p.OccupiedByPiece[enemy][ept]
		targets.ForEach(func(to Square) {
			addUnique(ml, Move{Kind: KindAction, From: wsq, To: to, Piece: NewColoredPiece(Wazir, us), Captured: ept})
		})
	}

	dests := reach1[Wazir][wsq] &^ occupied
	dests.ForEach(func(to Square) {
		addUnique(ml, Move{Kind: KindAction, From: wsq, To: to, Piece: NewColoredPiece(Wazir, us), Captured: NoPiece})
	})
}

// generatePseudoStageMoves emits any wazir move, including into check, for
// the checkmated side's forced final ply (spec.md §4.3, §4.2).
func (p *Position) generatePseudoStageMoves(ml *MoveList, us Color) {
	enemy := us.Opponent()
	wsq := p.WazirSquare(us)
	dests := reach1[Wazir][wsq] &^ p.OccupiedByColor[us]
	dests.ForEach(func(to Square) {
		captured := NoPiece
		if p.OccupiedByColor[enemy].IsSet(to) {
			captured = p.Squares[to].Piece()
		}
		ml.Add(Move{Kind: KindAction, From: wsq, To: to, Piece: NewColoredPiece(Wazir, us), Captured: captured})
	})
}
