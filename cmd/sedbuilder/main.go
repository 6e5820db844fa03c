// Command sedbuilder fetches the SED of a sky position from the SSDC SED
// Builder service, or loads a saved response, and prints it in the requested
// format. With -publish the document goes to Kafka instead of stdout.
//
// Usage:
//
//	sedbuilder -ra 166.113808 -dec 38.208833 -format csv
//	sedbuilder -file mrk421.json -format jetset -z 0.031 -obj-name Mrk421
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/jonboulle/clockwork"

	kafkaadapter "github.com/couchcryptid/sedbuilder/internal/adapter/kafka"
	"github.com/couchcryptid/sedbuilder/internal/adapter/sedapi"
	"github.com/couchcryptid/sedbuilder/internal/adapter/sedfile"
	"github.com/couchcryptid/sedbuilder/internal/adapter/stream"
	"github.com/couchcryptid/sedbuilder/internal/config"
	"github.com/couchcryptid/sedbuilder/internal/domain"
	"github.com/couchcryptid/sedbuilder/internal/observability"
	"github.com/couchcryptid/sedbuilder/internal/pipeline"
	"github.com/couchcryptid/sedbuilder/internal/render"
	"github.com/couchcryptid/sedbuilder/internal/table"
)

type options struct {
	ra, dec string
	file    string
	format  render.Format
	jetset  *table.JetsetParams
	publish bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "sedbuilder:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewCLILogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	var loader pipeline.BatchLoader = stream.NewWriter(stdout)
	if opts.publish {
		w := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loader = w
	}

	client := sedapi.NewClient(cfg.BaseURL, cfg.RequestTimeout, metrics, logger)
	transformer := pipeline.NewTransformer(render.New(logger, metrics), opts.format, render.Options{Jetset: opts.jetset}, clock)
	p := pipeline.New(client, transformer, loader, clock, logger, metrics)

	if opts.file != "" {
		resp, err := sedfile.Load(opts.file)
		if err != nil {
			return err
		}
		_, err = p.Export(ctx, filepath.Base(opts.file), resp)
		return err
	}

	coords, err := parseCoordinates(opts.ra, opts.dec)
	if err != nil {
		return err
	}
	logger.Debug("fetching sed", "coords", coords.Key(), "format", string(opts.format), "publish", opts.publish)
	_, err = p.Run(ctx, []domain.Coordinates{coords})
	return err
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("sedbuilder", flag.ContinueOnError)
	var (
		opts      options
		format    = fs.String("format", "json", "output format: json, yaml, table, csv, jetset")
		z         = fs.Float64("z", 0, "redshift, required for -format jetset")
		ulCL      = fs.Float64("ul-cl", table.DefaultULConfidence, "upper limit confidence level")
		restframe = fs.String("restframe", table.RestframeObserved, "jetset restframe: obs or src")
		dataScale = fs.String("data-scale", table.DataScaleLinear, "jetset data scale: lin-lin or log-log")
		objName   = fs.String("obj-name", table.DefaultObjectName, "jetset object name")
		legacy    = fs.Bool("legacy-layout", false, "name the jetset catalog column data_set")
	)
	fs.StringVar(&opts.ra, "ra", "", "right ascension in degrees, [0, 360)")
	fs.StringVar(&opts.dec, "dec", "", "declination in degrees, [-90, 90]")
	fs.StringVar(&opts.file, "file", "", "read a saved getData response instead of calling the service")
	fs.BoolVar(&opts.publish, "publish", false, "publish to KAFKA_SINK_TOPIC instead of writing to stdout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	f, err := render.ParseFormat(*format)
	if err != nil {
		return options{}, err
	}
	opts.format = f

	if opts.file == "" && (opts.ra == "" || opts.dec == "") {
		return options{}, errors.New("either -file or both -ra and -dec are required")
	}
	if opts.file != "" && (opts.ra != "" || opts.dec != "") {
		return options{}, errors.New("-file cannot be combined with -ra/-dec")
	}

	if f != render.FormatJetset {
		return opts, nil
	}
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	if !set["z"] {
		return options{}, &domain.InputError{Field: "z", Reason: "is required for jetset output", Err: table.ErrInvalidRedshift}
	}
	jopts := []table.JetsetOption{
		table.WithULConfidence(*ulCL),
		table.WithRestframe(*restframe),
		table.WithDataScale(*dataScale),
		table.WithObjectName(*objName),
	}
	if *legacy {
		jopts = append(jopts, table.WithLegacyLayout())
	}
	params, err := table.NewJetsetParams(*z, jopts...)
	if err != nil {
		return options{}, err
	}
	opts.jetset = &params
	return opts, nil
}

func parseCoordinates(ra, dec string) (domain.Coordinates, error) {
	r, err := strconv.ParseFloat(ra, 64)
	if err != nil {
		return domain.Coordinates{}, &domain.InputError{Field: "ra", Value: ra, Reason: "is not a number", Err: domain.ErrInvalidCoordinates}
	}
	d, err := strconv.ParseFloat(dec, 64)
	if err != nil {
		return domain.Coordinates{}, &domain.InputError{Field: "dec", Value: dec, Reason: "is not a number", Err: domain.ErrInvalidCoordinates}
	}
	return domain.NewCoordinates(r, d)
}
