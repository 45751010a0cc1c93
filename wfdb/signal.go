package wfdb

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// decodeStream unpacks a signal file into digital samples in storage order
func decodeStream(data []byte, format int) ([]int, error) {
	switch format {
	case 16:
		return decode16(data), nil
	case 212:
		return decode212(data), nil
	case 80:
		return decode80(data), nil
	default:
		return nil, fmt.Errorf("unsupported signal format %d", format)
	}
}

// decode16 reads little-endian two's complement 16-bit samples
func decode16(data []byte) []int {
	out := make([]int, len(data)/2)
	for i := range out {
		out[i] = int(int16(binary.LittleEndian.Uint16(data[2*i:])))
	}
	return out
}

// decode212 reads pairs of 12-bit two's complement samples packed into three
// bytes. The low nibble of the middle byte holds the high bits of the first
// sample and its high nibble those of the second.
func decode212(data []byte) []int {
	out := make([]int, 0, len(data)*2/3)
	for i := 0; i+1 < len(data); i += 3 {
		out = append(out, signExtend12(int(data[i])|int(data[i+1]&0x0F)<<8))
		if i+2 < len(data) {
			out = append(out, signExtend12(int(data[i+2])|int(data[i+1]&0xF0)<<4))
		}
	}
	return out
}

func signExtend12(v int) int {
	if v >= 0x800 {
		return v - 0x1000
	}
	return v
}

// decode80 reads 8-bit offset binary samples
func decode80(data []byte) []int {
	out := make([]int, len(data))
	for i, b := range data {
		out[i] = int(b) - 128
	}
	return out
}

// ReadSignal returns the digital samples of one signal of a record stored in
// dir. Signals sharing a file are interleaved frame by frame.
func ReadSignal(dir string, h *Header, channel int) ([]int, error) {
	if channel < 0 || channel >= len(h.Signals) {
		return nil, fmt.Errorf("channel %d out of range (%d signals)", channel, len(h.Signals))
	}
	spec := h.Signals[channel]

	// Position of the channel among the signals stored in the same file
	group, pos := 0, 0
	for i, s := range h.Signals {
		if s.FileName != spec.FileName {
			continue
		}
		if s.Format != spec.Format {
			return nil, fmt.Errorf("file %s mixes formats %d and %d", spec.FileName, spec.Format, s.Format)
		}
		if i == channel {
			pos = group
		}
		group++
	}

	data, err := os.ReadFile(filepath.Join(dir, spec.FileName))
	if err != nil {
		return nil, err
	}
	if spec.ByteOffset > len(data) {
		return nil, fmt.Errorf("byte offset %d beyond end of %s", spec.ByteOffset, spec.FileName)
	}

	stream, err := decodeStream(data[spec.ByteOffset:], spec.Format)
	if err != nil {
		return nil, err
	}

	frames := len(stream) / group
	if h.NumSamples > 0 {
		if frames < h.NumSamples {
			return nil, fmt.Errorf("%s holds %d frames, header declares %d", spec.FileName, frames, h.NumSamples)
		}
		frames = h.NumSamples
	}

	out := make([]int, frames)
	for f := range out {
		out[f] = stream[f*group+pos]
	}
	return out, nil
}

// invalidSample returns the digital value WFDB stores for a missing sample
func invalidSample(format int) (int, bool) {
	switch format {
	case 16:
		return -1 << 15, true
	case 212:
		return -1 << 11, true
	case 80:
		return -1 << 7, true
	default:
		return 0, false
	}
}

// ReadPhysical returns one signal converted to physical units. Invalid
// samples hold the previous valid value; leading ones take the first valid
// value, and a signal with no valid sample reads as zero.
func ReadPhysical(dir string, h *Header, channel int) ([]float64, error) {
	digital, err := ReadSignal(dir, h, channel)
	if err != nil {
		return nil, err
	}

	spec := h.Signals[channel]
	marker, hasMarker := invalidSample(spec.Format)
	valid := func(d int) bool { return !hasMarker || d != marker }

	hold := 0.0
	for _, d := range digital {
		if valid(d) {
			hold = spec.Physical(d)
			break
		}
	}

	out := make([]float64, len(digital))
	for i, d := range digital {
		if valid(d) {
			hold = spec.Physical(d)
		}
		out[i] = hold
	}
	return out, nil
}
