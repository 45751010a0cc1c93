// Command latido extracts per-beat ECG feature vectors from a directory of
// WFDB records and writes them as CSV.
//
// Usage:
//
//	latido extract -in DIR -out FILE [-config FILE.yaml] [-workers N] [-lead NAME] [-log-level LEVEL]
//	latido synth -out DIR [-records N] [-seconds S] [-fs HZ] [-bpm B] [-noise A] [-seed N]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/RyanBlaney/latido/config"
	"github.com/RyanBlaney/latido/logging"
	"github.com/RyanBlaney/latido/pipeline"
	"github.com/RyanBlaney/latido/synth"
	"github.com/RyanBlaney/latido/table"
	"github.com/RyanBlaney/latido/wfdb"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], logging.NewDefaultLogger(), os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, logger logging.Logger, usage io.Writer) int {
	if len(args) == 0 {
		printUsage(usage)
		return exitUsage
	}

	logging.SetGlobalLogger(logger)

	switch args[0] {
	case "extract":
		return runExtract(ctx, args[1:], logger, usage)
	case "synth":
		return runSynth(args[1:], logger, usage)
	case "help", "-h", "-help", "--help":
		printUsage(usage)
		return exitOK
	default:
		fmt.Fprintf(usage, "unknown command %q\n\n", args[0])
		printUsage(usage)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage:
  latido extract -in DIR -out FILE [-config FILE.yaml] [-workers N] [-lead NAME] [-log-level LEVEL]
  latido synth -out DIR [-records N] [-seconds S] [-fs HZ] [-bpm B] [-noise A] [-seed N]
`)
}

func runExtract(ctx context.Context, args []string, logger logging.Logger, usage io.Writer) int {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.SetOutput(usage)
	var (
		in       = fs.String("in", "", "WFDB record directory")
		out      = fs.String("out", "", "output CSV file")
		cfgPath  = fs.String("config", "", "YAML configuration file")
		workers  = fs.Int("workers", 0, "parallel workers (0 = one per CPU)")
		lead     = fs.String("lead", "", "preferred lead, e.g. MLII")
		logLevel = fs.String("log-level", "info", "debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *in == "" || *out == "" {
		fmt.Fprintln(usage, "extract: -in and -out are required")
		fs.Usage()
		return exitUsage
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logger.Error(err, "Invalid configuration")
			return exitError
		}
		cfg = loaded
	}

	// Flags given on the command line override the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Workers = *workers
		case "lead":
			cfg.Input.PreferredLead = *lead
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Error(err, "Invalid configuration")
		return exitError
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Error(err, "Invalid configuration")
		return exitError
	}
	logger.SetLevel(level)

	src, err := wfdb.NewSource(*in, cfg.Input)
	if err != nil {
		logger.Error(err, "Cannot read input directory", logging.Fields{"path": *in})
		return exitError
	}

	p, err := pipeline.New(cfg, src, pipeline.WithLogger(logger))
	if err != nil {
		logger.Error(err, "Cannot build pipeline")
		return exitError
	}

	sink, err := table.CreateCSV(*out)
	if err != nil {
		logger.Error(err, "Cannot create output", logging.Fields{"path": *out})
		return exitError
	}

	_, runErr := p.Run(ctx, sink)
	closeErr := sink.Close()

	switch {
	case errors.Is(runErr, pipeline.ErrOutputWrite):
		logger.Error(runErr, "Output failed", logging.Fields{"path": *out})
		return exitError
	case runErr != nil:
		logger.Error(runErr, "Extraction interrupted")
		return exitError
	case closeErr != nil:
		logger.Error(closeErr, "Output failed", logging.Fields{"path": *out})
		return exitError
	}

	return exitOK
}

func runSynth(args []string, logger logging.Logger, usage io.Writer) int {
	defaults := synth.DefaultOptions()

	fs := flag.NewFlagSet("synth", flag.ContinueOnError)
	fs.SetOutput(usage)
	var (
		out         = fs.String("out", "", "output directory")
		records     = fs.Int("records", 1, "number of records")
		seconds     = fs.Float64("seconds", defaults.Seconds, "record duration in seconds")
		sampleRate  = fs.Float64("fs", defaults.SampleRate, "sample rate in Hz")
		bpm         = fs.Float64("bpm", defaults.BPM, "mean heart rate")
		noise       = fs.Float64("noise", defaults.Noise, "noise standard deviation in mV")
		variability = fs.Float64("variability", defaults.Variability, "RR jitter as a fraction of the mean RR")
		ectopic     = fs.Float64("ectopic", defaults.EctopicRate, "probability of a ventricular beat")
		seed        = fs.Uint64("seed", defaults.Seed, "random seed of the first record")
		ext         = fs.String("ext", config.Default().Input.AnnotationExtension, "annotation file extension")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *out == "" {
		fmt.Fprintln(usage, "synth: -out is required")
		fs.Usage()
		return exitUsage
	}

	opts := synth.Options{
		SampleRate:  *sampleRate,
		Seconds:     *seconds,
		BPM:         *bpm,
		Noise:       *noise,
		Variability: *variability,
		EctopicRate: *ectopic,
		Seed:        *seed,
	}
	if err := opts.Validate(); err != nil {
		logger.Error(err, "Invalid synthesis options")
		return exitError
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		logger.Error(err, "Cannot create output directory", logging.Fields{"path": *out})
		return exitError
	}

	ids, err := synth.WriteDataset(*out, *ext, *records, opts)
	if err != nil {
		logger.Error(err, "Synthesis failed")
		return exitError
	}

	logger.Info("Wrote synthetic records", logging.Fields{
		"path":    *out,
		"records": len(ids),
	})
	return exitOK
}
