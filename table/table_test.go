package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/latido/features"
	"github.com/RyanBlaney/latido/label"
)

const header = "record,sample,mean_rr,std_rr,rmssd,pnn50,hr_bpm,qrs_width,r_amp,p_tot,p_low,p_mid,p_high,skew,kurtosis,label\n"

func sampleRow() Row {
	return Row{
		Features: features.Vector{
			Record: "100", Sample: 432,
			MeanRR: 0.8, StdRR: 0, RMSSD: 1e-17, PNN50: 0.25, HRBPM: 75,
			QRSWidth: 0.025, RAmp: -1.5,
			PTot: 0.1, PLow: 0.02, PMid: 0.05, PHigh: 1.0 / 3,
			Skew: 2, Kurtosis: 7.125,
		},
		Label: label.Ventricular,
	}
}

func TestCSVWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	if err := w.Append(sampleRow()); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	want := header + "100,432,0.8,0,1e-17,0.25,75,0.025,-1.5,0.1,0.02,0.05,0.3333333333333333,2,7.125,Ventricular\n"
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}

	if err := w.Append(sampleRow()); err == nil {
		t.Error("expected error appending after Close")
	}
}

func TestCSVWriterHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := CreateCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != header {
		t.Errorf("empty table = %q", data)
	}
}

func TestCreateCSVUnwritable(t *testing.T) {
	if _, err := CreateCSV(filepath.Join(t.TempDir(), "missing", "out.csv")); err == nil {
		t.Error("expected error for missing parent directory")
	}
}

func TestColumnsMatchRow(t *testing.T) {
	r := sampleRow()
	if got, want := len(r.Strings()), len(Columns()); got != want {
		t.Errorf("row has %d fields, header %d", got, want)
	}
	if strings.Join(Columns(), ",")+"\n" != header {
		t.Errorf("Columns = %v", Columns())
	}
}

func TestMemoryTable(t *testing.T) {
	m := NewMemoryTable()
	if err := m.Append(sampleRow(), sampleRow()); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 || m.Rows()[1].Label != label.Ventricular {
		t.Errorf("rows = %+v", m.Rows())
	}

	m.Close()
	if err := m.Append(sampleRow()); err == nil {
		t.Error("expected error appending after Close")
	}
}
