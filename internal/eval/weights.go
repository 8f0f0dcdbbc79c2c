package eval

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Quantization scales from spec.md §4.4: weights are int8 in [-127,127],
// and each layer's accumulated int32 dot product is divided down by its
// scale before being fed to the next layer (or, for the output layer,
// before the final centi-milli-pawn conversion).
const (
	scaleLayer1 = 127
	scaleLayer2 = 256
	scaleLayer3 = 64
	// scaleOutput is 78.7 (~10000/127) represented in tenths as a fixed
	// point so the final division stays integer: divide by 10 after
	// multiplying by scaleOutputTenths.
	scaleOutputTenths = 787
)

const (
	layer1Out = 128
	layer2In  = 2 * layer1Out // both sides concatenated
	layer2Out = 16
	layer3Out = 32
	outputIn  = layer3Out
)

// Weights holds every quantized layer of the evaluator, loaded once at
// startup from the blob spec.md §6 describes and shared read-only across
// the whole search (no per-node allocation).
type Weights struct {
	Layer1 [][128]int8 // FeatureDim rows, shared by both perspectives

	Layer2W [layer2Out][layer2In]int8
	Layer2B [layer2Out]int16

	Layer3W [layer3Out][layer2Out]int8
	Layer3B [layer3Out]int16

	OutputW [outputIn]int8
	OutputB int16
}

type blobHeader struct {
	NumFeatures int32
	Layer1Out   int32
	Layer2Out   int32
	Layer3Out   int32
	OutputOut   int32
}

// LoadWeights decodes the binary weight blob format from spec.md §6: a
// little-endian int32 header of layer sizes, then layer 1's embedding
// rows, then layers 2 through 4 as row-major int8 matrices each followed
// by an int16 bias array.
func LoadWeights(r io.Reader) (*Weights, error) {
	var hdr blobHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("eval: read weight header: %w", err)
	}
	if int(hdr.NumFeatures) != FeatureDim {
		return nil, fmt.Errorf("eval: weight blob has %d features, want %d", hdr.NumFeatures, FeatureDim)
	}
	if int(hdr.Layer1Out) != layer1Out || int(hdr.Layer2Out) != layer2Out ||
		int(hdr.Layer3Out) != layer3Out || int(hdr.OutputOut) != 1 {
		return nil, fmt.Errorf("eval: weight blob layer shape mismatch: %+v", hdr)
	}

	w := &Weights{Layer1: make([][128]int8, FeatureDim)}

	for i := range w.Layer1 {
		if err := binary.Read(r, binary.LittleEndian, &w.Layer1[i]); err != nil {
			return nil, fmt.Errorf("eval: read layer1 row %d: %w", i, err)
		}
	}
	for i := range w.Layer2W {
		if err := binary.Read(r, binary.LittleEndian, &w.Layer2W[i]); err != nil {
			return nil, fmt.Errorf("eval: read layer2 row %d: %w", i, err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &w.Layer2B); err != nil {
		return nil, fmt.Errorf("eval: read layer2 bias: %w", err)
	}
	for i := range w.Layer3W {
		if err := binary.Read(r, binary.LittleEndian, &w.Layer3W[i]); err != nil {
			return nil, fmt.Errorf("eval: read layer3 row %d: %w", i, err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &w.Layer3B); err != nil {
		return nil, fmt.Errorf("eval: read layer3 bias: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &w.OutputW); err != nil {
		return nil, fmt.Errorf("eval: read output weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &w.OutputB); err != nil {
		return nil, fmt.Errorf("eval: read output bias: %w", err)
	}

	return w, nil
}
