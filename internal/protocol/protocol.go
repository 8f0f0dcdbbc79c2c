// Package protocol implements the judge-protocol I/O driver (spec.md
// §6): a thin shim that turns stdin lines into engine façade calls and
// façade results into stdout lines. It contains no decision logic of
// its own, mirroring the scanner-loop shape of a UCI handler.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kestrel-tc/zeropointone/internal/board"
	"github.com/kestrel-tc/zeropointone/internal/engine"
)

// Driver reads the judge protocol from in and writes responses to out,
// driving a single engine.Engine through one complete game.
type Driver struct {
	eng *engine.Engine
	in  *bufio.Scanner
	out io.Writer

	// MoveTime is the fixed per-move budget this driver allocates when
	// the judge does not convey a remaining-clock figure (the protocol
	// in spec.md §6 carries no time-control tokens of its own).
	MoveTime time.Duration
}

// DefaultMoveTime is the per-move budget New assigns to Driver.MoveTime.
const DefaultMoveTime = 2 * time.Second

// New builds a driver over eng reading in and writing out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *Driver {
	return &Driver{
		eng:      eng,
		in:       bufio.NewScanner(in),
		out:      out,
		MoveTime: DefaultMoveTime,
	}
}

// Run drives one game to completion: it determines whether this side is
// Red (sees the literal "Start" token first) or Blue (sees Red's setup
// string first), exchanges setup moves, then alternates ordinary moves
// until the judge sends "Quit", a wazir falls, or the 102-ply horizon
// is reached.
func (d *Driver) Run() {
	if !d.in.Scan() {
		return
	}
	first := strings.TrimSpace(d.in.Text())

	switch {
	case first == "Start":
		d.playSetup()
	case len(first) == 16:
		d.replySetup(first)
	default:
		return
	}

	d.loop()
}

// playSetup is Red's side of the opening exchange: offer a setup move
// with no input to react to.
func (d *Driver) playSetup() {
	move := d.eng.Play(engine.UCILimits{MoveTime: d.MoveTime})
	d.writeMove(move)
}

// replySetup is Blue's side: apply Red's setup, then offer our own.
func (d *Driver) replySetup(redSetup string) {
	m, err := board.ParseSetup(redSetup)
	if err != nil {
		fmt.Fprintf(d.out, "info string invalid setup: %v\n", err)
		return
	}
	d.eng.ApplySetup(m)

	move := d.eng.Play(engine.UCILimits{MoveTime: d.MoveTime})
	d.writeMove(move)
}

// loop alternates reading the opponent's move and replying with our
// own until the game ends or "Quit" arrives.
func (d *Driver) loop() {
	for d.in.Scan() {
		line := strings.TrimSpace(d.in.Text())
		if line == "" {
			continue
		}
		if line == "Quit" {
			return
		}

		pos := d.eng.Position()
		if pos.Stage == board.RedSetup || pos.Stage == board.BlueSetup {
			m, err := board.ParseSetup(line)
			if err != nil {
				fmt.Fprintf(d.out, "info string invalid setup: %v\n", err)
				return
			}
			d.eng.ApplySetup(m)
		} else {
			m, err := board.ParseAction(line, pos)
			if err != nil {
				fmt.Fprintf(d.out, "info string invalid move: %v\n", err)
				return
			}
			d.eng.ApplyMove(m)
		}

		if d.gameOver() {
			return
		}

		move := d.eng.Play(engine.UCILimits{MoveTime: d.MoveTime})
		d.writeMove(move)

		if d.gameOver() {
			return
		}
	}
}

// gameOver reports whether either wazir has fallen or the 102-ply
// horizon has been reached (spec.md §6).
func (d *Driver) gameOver() bool {
	pos := d.eng.Position()
	redAlive := !pos.OccupiedByPiece[board.Red][board.Wazir].Empty()
	blueAlive := !pos.OccupiedByPiece[board.Blue][board.Wazir].Empty()
	return !redAlive || !blueAlive || int(pos.Ply) >= engine.MaxTotalPlies
}

func (d *Driver) writeMove(m board.Move) {
	fmt.Fprintln(d.out, m.String())
}
