package eval

import "github.com/kestrel-tc/zeropointone/internal/board"

// clippedReLU clamps a fixed-point activation to [0, one], matching
// spec.md §4.4's "clamp to [0,1] in fixed point" hidden-layer activation.
func clippedReLU(x int32, one int32) int32 {
	if x < 0 {
		return 0
	}
	if x > one {
		return one
	}
	return x
}

// Evaluate scores pos from self's point of view: positive means self is
// better placed. Callers must have called Evaluator.Init (or threaded
// Make/Unmake up to the current ply) before this is invoked, and must not
// invoke it on a position where either color's wazir has already been
// captured (the search's terminal check handles that case first).
func (e *Evaluator) Evaluate(self board.Color, ply int) int32 {
	return e.w.forward(e.stack[ply].of(self), e.stack[ply].of(self.Opponent()))
}

// forward concatenates the mover's accumulator first, per spec.md §4.4,
// so the returned score is always from the side to move's perspective.
// Biases are stored already expressed in their layer's post-division
// output units, so each layer adds its bias after rescaling the raw
// dot product by the previous layer's weight scale.
func (w *Weights) forward(mover, opponent *Accumulator) int32 {
	var hidden1 [layer2In]int16
	for i, v := range mover.v {
		hidden1[i] = int16(clippedReLU(int32(v), scaleLayer1))
	}
	for i, v := range opponent.v {
		hidden1[layer1Out+i] = int16(clippedReLU(int32(v), scaleLayer1))
	}

	h2 := dotLayer2(&hidden1, &w.Layer2W, &w.Layer2B)
	h3 := dotLayer3(&h2, &w.Layer3W, &w.Layer3B)
	raw := dotOutput(&h3, &w.OutputW, w.OutputB)

	// raw is in layer3's [0,64] activation units times the output
	// layer's int8 weight range; scaleOutputTenths/10 approximates
	// spec.md's ×78.7 conversion to centi-milli-pawns.
	return raw * scaleOutputTenths / 10
}

func dotLayer2(in *[layer2In]int16, w *[layer2Out][layer2In]int8, bias *[layer2Out]int16) [layer2Out]int16 {
	var out [layer2Out]int16
	for o := range out {
		sum := dotInt16Int8(in, &w[o])
		act := clippedReLU(sum/scaleLayer2+int32(bias[o]), scaleLayer2)
		out[o] = int16(act)
	}
	return out
}

func dotLayer3(in *[layer2Out]int16, w *[layer3Out][layer2Out]int8, bias *[layer3Out]int16) [layer3Out]int16 {
	var out [layer3Out]int16
	for o := range out {
		sum := int32(0)
		for i, v := range in {
			sum += int32(v) * int32(w[o][i])
		}
		act := clippedReLU(sum/scaleLayer3+int32(bias[o]), scaleLayer3)
		out[o] = int16(act)
	}
	return out
}

func dotOutput(in *[layer3Out]int16, w *[outputIn]int8, bias int16) int32 {
	sum := int32(0)
	for i, v := range in {
		sum += int32(v) * int32(w[i])
	}
	return sum/scaleLayer3 + int32(bias)
}
