package wfdb

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/RyanBlaney/latido/record"
)

// WriteSignal16 interleaves the given digital channels frame by frame and
// writes them as format 16. Values are clipped to [-32767, 32767] since
// -32768 marks an invalid sample.
func WriteSignal16(w io.Writer, channels [][]int) error {
	if len(channels) == 0 {
		return nil
	}
	n := len(channels[0])
	for c, ch := range channels {
		if len(ch) != n {
			return fmt.Errorf("channel %d has %d samples, want %d", c, len(ch), n)
		}
	}

	bw := bufio.NewWriter(w)
	var b [2]byte
	for f := range n {
		for _, ch := range channels {
			v := min(max(ch[f], math.MinInt16+1), math.MaxInt16)
			binary.LittleEndian.PutUint16(b[:], uint16(int16(v)))
			if _, err := bw.Write(b[:]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// RecordFiles describes a record to write with WriteRecord
type RecordFiles struct {
	Header              *Header
	Channels            [][]int             // Digital samples, one slice per signal
	Annotations         []record.Annotation // Optional
	AnnotationExtension string              // e.g. "atr"; empty skips annotations
}

// WriteRecord writes the header, a single format 16 signal file and the
// annotation file of a record into dir. Every signal is stored in
// "<record>.dat".
func WriteRecord(dir string, rf RecordFiles) error {
	h := *rf.Header
	if len(rf.Channels) != len(h.Signals) {
		return fmt.Errorf("%d channels for %d signals", len(rf.Channels), len(h.Signals))
	}

	datName := h.Record + ".dat"
	h.NumSignals = len(h.Signals)
	h.Signals = append([]SignalSpec(nil), h.Signals...)
	for i := range h.Signals {
		h.Signals[i].FileName = datName
		h.Signals[i].Format = 16
		h.Signals[i].ByteOffset = 0
		if len(rf.Channels[i]) > 0 {
			h.Signals[i].InitialValue = rf.Channels[i][0]
		}
		h.Signals[i].Checksum = checksum(rf.Channels[i])
	}
	if len(rf.Channels) > 0 {
		h.NumSamples = len(rf.Channels[0])
	}

	if err := writeFile(filepath.Join(dir, h.Record+".hea"), func(w io.Writer) error {
		return WriteHeader(w, &h)
	}); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(dir, datName), func(w io.Writer) error {
		return WriteSignal16(w, rf.Channels)
	}); err != nil {
		return err
	}

	if rf.AnnotationExtension == "" {
		return nil
	}
	return writeFile(filepath.Join(dir, h.Record+"."+rf.AnnotationExtension), func(w io.Writer) error {
		return WriteAnnotations(w, rf.Annotations)
	})
}

// checksum is the 16-bit sum of a signal's samples as stored in headers
func checksum(samples []int) int {
	var sum int16
	for _, v := range samples {
		sum += int16(v)
	}
	return int(sum)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
