// Command zpo-engine runs the 0.1 engine against the judge protocol on
// standard streams, mirroring the shape of a UCI binary's main.go.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/kestrel-tc/zeropointone/internal/book"
	"github.com/kestrel-tc/zeropointone/internal/engine"
	"github.com/kestrel-tc/zeropointone/internal/eval"
	"github.com/kestrel-tc/zeropointone/internal/protocol"
)

var (
	hashMB   = flag.Int("hash", 64, "transposition table size in megabytes")
	weights  = flag.String("weights", "", "path to the NNUE weight blob (required)")
	movetime = flag.Duration("movetime", protocol.DefaultMoveTime, "fixed per-move search budget")
	noBook   = flag.Bool("no-book", false, "disable the opening-setup oracle")
)

func main() {
	flag.Parse()

	if *weights == "" {
		log.Fatal("zpo-engine: -weights is required (NNUE weight blob path)")
	}
	w, err := eval.LoadWeightsFile(*weights)
	if err != nil {
		log.Fatalf("zpo-engine: %v", err)
	}

	eng := engine.NewEngine(*hashMB, w)
	if !*noBook {
		eng.SetBook(book.New())
	}

	drv := protocol.New(eng, os.Stdin, os.Stdout)
	drv.MoveTime = *movetime
	drv.Run()
}
