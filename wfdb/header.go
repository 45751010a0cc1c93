// Package wfdb reads and writes PhysioNet WFDB records: the text header
// (.hea), the binary signal files (.dat) and MIT-format annotation files
// (.atr and friends).
package wfdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultGain is used when a signal line omits its gain or gives 0
	DefaultGain = 200.0

	// DefaultSampleRate is used when the record line omits the frequency
	DefaultSampleRate = 250.0

	defaultUnits = "mV"
)

// Header describes a single-segment WFDB record
type Header struct {
	Record     string       `json:"record"`
	NumSignals int          `json:"num_signals"`
	SampleRate float64      `json:"sample_rate"` // Samples per second per signal
	NumSamples int          `json:"num_samples"` // Samples per signal, 0 if unknown
	Signals    []SignalSpec `json:"signals"`
}

// SignalSpec is one signal line of a header
type SignalSpec struct {
	FileName      string  `json:"file_name"`
	Format        int     `json:"format"`      // 16, 212 or 80
	ByteOffset    int     `json:"byte_offset"` // Bytes to skip at the start of the file
	Gain          float64 `json:"gain"`        // ADC units per physical unit
	Baseline      int     `json:"baseline"`    // ADC value of physical zero
	Units         string  `json:"units"`
	ADCResolution int     `json:"adc_resolution"`
	ADCZero       int     `json:"adc_zero"`
	InitialValue  int     `json:"initial_value"`
	Checksum      int     `json:"checksum"`
	BlockSize     int     `json:"block_size"`
	Description   string  `json:"description"` // Lead name, e.g. "MLII"
}

// Physical converts a digital sample to physical units
func (s *SignalSpec) Physical(digital int) float64 {
	return float64(digital-s.Baseline) / s.Gain
}

// Digital converts a physical value to the nearest ADC value
func (s *SignalSpec) Digital(physical float64) int {
	v := physical*s.Gain + float64(s.Baseline)
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// ReadHeader parses the header file at path
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := ParseHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// ParseHeader parses a WFDB header. Comment lines start with '#'.
func ParseHeader(r io.Reader) (*Header, error) {
	scanner := bufio.NewScanner(r)

	var h *Header
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}

		if h == nil {
			parsed, err := parseRecordLine(line)
			if err != nil {
				return nil, err
			}
			h = parsed
			continue
		}

		if len(h.Signals) == h.NumSignals {
			break
		}
		spec, err := parseSignalLine(line)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", len(h.Signals), err)
		}
		h.Signals = append(h.Signals, spec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if h == nil {
		return nil, fmt.Errorf("missing record line")
	}
	if len(h.Signals) != h.NumSignals {
		return nil, fmt.Errorf("header declares %d signals, found %d", h.NumSignals, len(h.Signals))
	}
	return h, nil
}

// parseRecordLine handles "name[/segments] nsig [fs[/counter[(base)]] [nsamp [time [date]]]]"
func parseRecordLine(line string) (*Header, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("record line too short: %q", line)
	}

	if strings.Contains(fields[0], "/") {
		return nil, fmt.Errorf("multi-segment record %q is not supported", fields[0])
	}

	nsig, err := strconv.Atoi(fields[1])
	if err != nil || nsig < 0 {
		return nil, fmt.Errorf("invalid signal count %q", fields[1])
	}

	h := &Header{
		Record:     fields[0],
		NumSignals: nsig,
		SampleRate: DefaultSampleRate,
	}

	if len(fields) > 2 {
		freq := fields[2]
		if i := strings.IndexAny(freq, "/("); i >= 0 {
			freq = freq[:i]
		}
		fs, err := strconv.ParseFloat(freq, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sampling frequency %q", fields[2])
		}
		if fs > 0 {
			h.SampleRate = fs
		}
	}

	if len(fields) > 3 {
		n, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid sample count %q", fields[3])
		}
		h.NumSamples = n
	}

	return h, nil
}

// parseSignalLine handles "file format[xspf][:skew][+offset] gain[(baseline)][/units]
// adcres adczero initval checksum blocksize description"
func parseSignalLine(line string) (SignalSpec, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return SignalSpec{}, fmt.Errorf("signal line too short: %q", line)
	}

	spec := SignalSpec{
		FileName: fields[0],
		Gain:     DefaultGain,
		Units:    defaultUnits,
	}

	if err := parseFormat(fields[1], &spec); err != nil {
		return SignalSpec{}, err
	}

	ints := []*int{&spec.ADCResolution, &spec.ADCZero, &spec.InitialValue, &spec.Checksum, &spec.BlockSize}
	for i, dst := range ints {
		if len(fields) <= 3+i {
			break
		}
		v, err := strconv.Atoi(fields[3+i])
		if err != nil {
			return SignalSpec{}, fmt.Errorf("invalid integer field %q", fields[3+i])
		}
		*dst = v
	}

	hasBaseline := false
	if len(fields) > 2 {
		var err error
		hasBaseline, err = parseGain(fields[2], &spec)
		if err != nil {
			return SignalSpec{}, err
		}
	}
	if !hasBaseline {
		spec.Baseline = spec.ADCZero
	}

	if len(fields) > 8 {
		spec.Description = strings.Join(fields[8:], " ")
	}

	return spec, nil
}

func parseFormat(field string, spec *SignalSpec) error {
	format := field
	if i := strings.Index(format, "+"); i >= 0 {
		offset, err := strconv.Atoi(format[i+1:])
		if err != nil {
			return fmt.Errorf("invalid byte offset in %q", field)
		}
		spec.ByteOffset = offset
		format = format[:i]
	}
	if i := strings.Index(format, ":"); i >= 0 {
		format = format[:i]
	}
	if i := strings.Index(format, "x"); i >= 0 {
		if spf := format[i+1:]; spf != "1" {
			return fmt.Errorf("multiple samples per frame (%q) are not supported", field)
		}
		format = format[:i]
	}

	f, err := strconv.Atoi(format)
	if err != nil {
		return fmt.Errorf("invalid format %q", field)
	}
	spec.Format = f
	return nil
}

// parseGain fills gain, baseline and units. It reports whether a baseline
// was given explicitly.
func parseGain(field string, spec *SignalSpec) (bool, error) {
	gain := field
	if i := strings.Index(gain, "/"); i >= 0 {
		spec.Units = gain[i+1:]
		gain = gain[:i]
	}

	hasBaseline := false
	if i := strings.Index(gain, "("); i >= 0 {
		end := strings.Index(gain, ")")
		if end < i {
			return false, fmt.Errorf("unbalanced baseline in %q", field)
		}
		b, err := strconv.Atoi(gain[i+1 : end])
		if err != nil {
			return false, fmt.Errorf("invalid baseline in %q", field)
		}
		spec.Baseline = b
		hasBaseline = true
		gain = gain[:i]
	}

	g, err := strconv.ParseFloat(gain, 64)
	if err != nil {
		return false, fmt.Errorf("invalid gain %q", field)
	}
	if g != 0 {
		spec.Gain = g
	}

	return hasBaseline, nil
}

// WriteHeader writes h in WFDB header syntax
func WriteHeader(w io.Writer, h *Header) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s %d %s %d\n", h.Record, len(h.Signals),
		strconv.FormatFloat(h.SampleRate, 'f', -1, 64), h.NumSamples)

	for _, s := range h.Signals {
		format := strconv.Itoa(s.Format)
		if s.ByteOffset > 0 {
			format += "+" + strconv.Itoa(s.ByteOffset)
		}
		units := s.Units
		if units == "" {
			units = defaultUnits
		}
		line := fmt.Sprintf("%s %s %s(%d)/%s %d %d %d %d %d %s",
			s.FileName, format, strconv.FormatFloat(s.Gain, 'f', -1, 64), s.Baseline, units,
			s.ADCResolution, s.ADCZero, s.InitialValue, s.Checksum, s.BlockSize, s.Description)
		fmt.Fprintln(bw, strings.TrimSpace(line))
	}

	return bw.Flush()
}
