package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"combohunt/internal/config"
	"combohunt/internal/domain"
	"combohunt/internal/generate"
	"combohunt/internal/godaddy"
	"combohunt/internal/scan"
	"combohunt/internal/store"
)

func newRootCmd(ver string) *cobra.Command {
	var (
		suffixesStr   string
		maxPrice      float64
		verbose       bool
		onlyAvailable bool
		batchSize     int
		delaySecs     float64
		outputPath    string
		timeout       time.Duration
		baseURL       string
	)

	root := &cobra.Command{
		Use:           "combohunt <letters> [tlds]",
		Short:         "Hunt available short domain names via the GoDaddy availability API",
		Long: `combohunt enumerates every letter combination of the given length,
optionally decorated with suffixes, and checks availability against the
GoDaddy API in rate-limited batches. Discovered domains are saved after
every batch, so an interrupted run loses at most one batch of progress
and can be resumed against the same output file.`,
		Version:       fmt.Sprintf("%s (%s/%s)", ver, runtime.GOOS, runtime.GOARCH),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return &cliError{Code: 2, Err: fmt.Errorf("expected <letters> [tlds]"), ShowUsage: true, Cmd: cmd}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			letters, err := strconv.Atoi(args[0])
			if err != nil || letters < 1 {
				return usageErr(cmd, fmt.Errorf("letters must be a positive integer, got %q", args[0]))
			}

			tldsArg := ".com"
			if len(args) > 1 {
				tldsArg = args[1]
			}
			tlds, err := normalizeTLDs(splitCommaList(tldsArg))
			if err != nil {
				return usageErr(cmd, err)
			}

			suffixes, err := normalizeSuffixes(splitCommaList(suffixesStr))
			if err != nil {
				return usageErr(cmd, err)
			}

			cfg := config.Config{
				Letters:       letters,
				TLDs:          tlds,
				Suffixes:      suffixes,
				BatchSize:     batchSize,
				Delay:         time.Duration(delaySecs * float64(time.Second)),
				Timeout:       timeout,
				Verbose:       verbose,
				OnlyAvailable: onlyAvailable,
				OutputPath:    outputPath,
				BaseURL:       baseURL,
			}
			if cmd.Flags().Changed("to") {
				p := maxPrice
				cfg.MaxPrice = &p
			}
			if err := cfg.Validate(); err != nil {
				return usageErr(cmd, err)
			}

			creds, err := config.LoadCredentials()
			if err != nil {
				// Environment problem, not an argument problem: skip the
				// usage dump.
				return &cliError{Code: 2, Err: err}
			}
			cfg.Credentials = creds

			logger := newLogger(cfg.Verbose)
			defer func() { _ = logger.Sync() }()

			return runScan(cmd, cfg, logger)
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SetFlagErrorFunc(usageErr)

	f := root.Flags()
	f.StringVar(&suffixesStr, "suffixes", "", "Comma-separated suffixes appended before the TLD (e.g. -app,-ai)")
	f.Float64Var(&maxPrice, "to", 0, "Maximum acceptable price in USD (unset = unbounded)")
	f.BoolVarP(&verbose, "verbose", "v", false, "Verbose output (diagnostics and definitive/tentative detail)")
	f.BoolVar(&onlyAvailable, "only-available", false, "Only print domains that are available and within the price filter")
	f.IntVar(&batchSize, "batch-size", 50, "Domains per API request (1-50)")
	f.Float64Var(&delaySecs, "delay", 2, "Delay in seconds between API requests")
	f.StringVar(&outputPath, "output", "available.json", "State file for discovered domains (merged on resume)")
	f.DurationVar(&timeout, "timeout", 30*time.Second, "Per-request timeout")
	f.StringVar(&baseURL, "base-url", godaddy.DefaultBaseURL, "Availability API base URL")

	return root
}

func runScan(cmd *cobra.Command, cfg config.Config, logger *zap.Logger) error {
	// Resume before anything touches the network: a malformed state file
	// is a configuration error, not something to silently discard.
	loaded, err := store.Load(cfg.OutputPath)
	if err != nil {
		return &cliError{Code: 1, Err: err}
	}
	st := store.New()
	st.Merge(loaded)
	for _, tld := range cfg.TLDs {
		st.EnsureTLD(tld)
	}

	client, err := godaddy.NewClient(godaddy.Options{
		APIKey:    cfg.Credentials.APIKey,
		APISecret: cfg.Credentials.APISecret,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return &cliError{Code: 2, Err: err}
	}

	seq, err := generate.New(generate.Options{
		Letters:  cfg.Letters,
		Suffixes: cfg.Suffixes,
		TLDs:     cfg.TLDs,
	})
	if err != nil {
		return usageErr(cmd, err)
	}

	printer := newPrinter(os.Stdout, cfg.Verbose, cfg.OnlyAvailable)
	printer.Banner(cfg, seq.Total())

	scanner, err := scan.New(scan.Options{
		BatchSize: cfg.BatchSize,
		Delay:     cfg.Delay,
		MaxPrice:  cfg.MaxPrice,
		StatePath: cfg.OutputPath,
		Checker:   client,
		Store:     st,
		Reporter:  printer,
		Logger:    logger,
	})
	if err != nil {
		return &cliError{Code: 1, Err: err}
	}

	if err := scanner.Run(cmd.Context(), seq); err != nil {
		return &cliError{Code: 1, Err: err}
	}

	printer.Done(cfg.OutputPath, st.Count(), cmd.Context().Err() != nil)
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if !verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func normalizeTLDs(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, t := range in {
		n, err := domain.NormalizeTLD(t)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

func normalizeSuffixes(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		n, err := domain.NormalizeSuffix(s)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out, nil
}
