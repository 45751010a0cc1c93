package wfdb

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/RyanBlaney/latido/record"
)

// Pseudo-annotation codes of the MIT annotation format
const (
	skipCode = 59 // next four bytes hold a long time increment
	numCode  = 60 // sets the num field of following annotations
	subCode  = 61 // sets the subtyp field
	chnCode  = 62 // sets the chan field
	auxCode  = 63 // value is the length of an auxiliary byte string

	maxInterval = 0x3FF
)

// codeSymbols maps annotation codes to their mnemonic. Unassigned codes map
// to the empty string.
var codeSymbols = [...]string{
	1: "N", 2: "L", 3: "R", 4: "a", 5: "V", 6: "F", 7: "J", 8: "A", 9: "S",
	10: "E", 11: "j", 12: "/", 13: "Q", 14: "~", 16: "|", 18: "s", 19: "T",
	20: "*", 21: "D", 22: "\"", 23: "=", 24: "p", 25: "B", 26: "^", 27: "t",
	28: "+", 29: "u", 30: "?", 31: "!", 32: "[", 33: "]", 34: "e", 35: "n",
	36: "@", 37: "x", 38: "f", 39: "(", 40: ")", 41: "r",
}

// Symbol returns the mnemonic for an annotation code
func Symbol(code int) string {
	if code < 0 || code >= len(codeSymbols) {
		return ""
	}
	return codeSymbols[code]
}

// Code returns the annotation code for a mnemonic
func Code(symbol string) (int, bool) {
	if symbol == "" {
		return 0, false
	}
	for code, s := range codeSymbols {
		if s == symbol {
			return code, true
		}
	}
	return 0, false
}

// ReadAnnotationFile reads an MIT-format annotation file
func ReadAnnotationFile(path string) ([]record.Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	anns, err := ReadAnnotations(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return anns, nil
}

// ReadAnnotations decodes an MIT-format annotation stream. Each 16-bit
// little-endian word carries a 6-bit code and a 10-bit value; for ordinary
// codes the value is the time increment since the previous annotation.
// Auxiliary strings and num/sub/chan modifiers are consumed and discarded.
func ReadAnnotations(r io.Reader) ([]record.Annotation, error) {
	var (
		anns   []record.Annotation
		sample int
		buf    [4]byte
	)

	for {
		if _, err := io.ReadFull(r, buf[:2]); err != nil {
			if err == io.EOF {
				return anns, nil
			}
			return nil, fmt.Errorf("annotation word: %w", err)
		}

		word := binary.LittleEndian.Uint16(buf[:2])
		if word == 0 {
			return anns, nil
		}
		code := int(word >> 10)
		value := int(word & maxInterval)

		switch code {
		case skipCode:
			if _, err := io.ReadFull(r, buf[:4]); err != nil {
				return nil, fmt.Errorf("skip interval: %w", err)
			}
			// High 16 bits first, each half little-endian
			hi := uint32(binary.LittleEndian.Uint16(buf[0:2]))
			lo := uint32(binary.LittleEndian.Uint16(buf[2:4]))
			sample += int(int32(hi<<16 | lo))
		case numCode, subCode, chnCode:
		case auxCode:
			skip := int64(value + value%2)
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, fmt.Errorf("aux string: %w", err)
			}
		default:
			sample += value
			if code == 0 {
				continue
			}
			anns = append(anns, record.Annotation{Sample: sample, Symbol: Symbol(code)})
		}
	}
}

// WriteAnnotations encodes annotations in MIT format. Gaps longer than the
// 10-bit interval field are written with a SKIP pseudo-annotation. The
// annotations must be ordered by sample.
func WriteAnnotations(w io.Writer, anns []record.Annotation) error {
	bw := bufio.NewWriter(w)
	word := func(v uint16) {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], v)
		bw.Write(b[:])
	}

	prev := 0
	for i, a := range anns {
		code, ok := Code(a.Symbol)
		if !ok {
			return fmt.Errorf("annotation %d: unknown symbol %q", i, a.Symbol)
		}
		delta := a.Sample - prev
		if delta < 0 {
			return fmt.Errorf("annotation %d: sample %d precedes %d", i, a.Sample, prev)
		}

		if delta > maxInterval {
			word(skipCode << 10)
			d := uint32(int32(delta))
			word(uint16(d >> 16))
			word(uint16(d))
			delta = 0
		}
		word(uint16(code<<10 | delta))
		prev = a.Sample
	}
	word(0)

	return bw.Flush()
}
