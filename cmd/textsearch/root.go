package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/noise"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/store"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/session"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/metrics"
)

const usageLine = "Usage: textsearch <filename>"

type options struct {
	configPath string
	backend    string
	dump       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "textsearch <filename>",
		Short: "Index a text file and search it word by word",
		Long: usageLine + `

Every word of the file is indexed with the lines it appears on. While
searching, simply enter the word to be searched, or a '-' followed by either
a 'q' or a 'c' to quit or continue searching. Common words such as "the" or
"and" are not searched.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Fprintln(cmd.OutOrStdout(), usageLine)
				return apperrors.Newf(apperrors.ErrUsage, apperrors.ExitFailure,
					"expected 1 argument, got %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "index backend: tree, hash or redis")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "print every indexed word before searching")
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintln(cmd.OutOrStdout(), usageLine)
		return apperrors.New(apperrors.ErrUsage, apperrors.ExitFailure, err.Error())
	})
	return cmd
}

func run(ctx context.Context, in io.Reader, out, errOut io.Writer, path string, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitFailure, "loading config: %v", err)
	}
	if opts.backend != "" {
		cfg.Index.Backend = opts.backend
		if err := cfg.Validate(); err != nil {
			return apperrors.New(apperrors.ErrUsage, apperrors.ExitFailure, err.Error())
		}
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, errOut)

	sessionID := uuid.NewString()
	ctx = logger.WithSessionID(ctx, sessionID)
	log := logger.FromContext(ctx)
	m := metrics.New()
	checker := health.NewChecker()

	s, err := store.Open(cfg)
	if err != nil {
		return apperrors.Newf(apperrors.ErrBackendUnavailable, apperrors.ExitFailure, "%v", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error("closing index store", "error", err)
		}
	}()
	if rs, ok := s.(*store.RedisStore); ok {
		checker.Register("redis", rs.Ping)
	}

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	background, bgCtx := errgroup.WithContext(bgCtx)

	var tracker analytics.Tracker = analytics.Discard{}
	var collector *analytics.Collector
	if cfg.Analytics.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		checker.Register("kafka", producer.Ping)
		collector = analytics.NewCollector(producer, cfg.Analytics.BufferSize)
		background.Go(func() error { return collector.Run(bgCtx) })
		tracker = collector
	}
	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Port, m, checker)
		background.Go(func() error { return srv.Run(bgCtx) })
	}

	err = searchFile(ctx, in, out, path, cfg, opts, s, m, tracker, sessionID)

	if collector != nil {
		collector.Close()
		published, dropped := collector.Stats()
		log.Info("analytics flushed", "published", published, "dropped", dropped)
	}
	stopBackground()
	if bgErr := background.Wait(); bgErr != nil {
		log.Warn("background service failed", "error", bgErr)
	}
	return err
}

func searchFile(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	path string,
	cfg *config.Config,
	opts *options,
	s store.Store,
	m *metrics.Metrics,
	tracker analytics.Tracker,
	sessionID string,
) error {
	engine := indexer.NewEngine(s, m, cfg.Index)
	stats, err := engine.IndexFile(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Indexing all of '%s' took: %f seconds.\n", path, stats.Elapsed.Seconds())
	tracker.Track(analytics.IndexEvent{
		Type:      analytics.EventIndexFile,
		File:      path,
		Backend:   cfg.Index.Backend,
		Words:     stats.Words,
		Terms:     stats.Terms,
		Lines:     stats.Lines,
		LatencyMs: stats.Elapsed.Milliseconds(),
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	})

	if opts.dump {
		if err := dumpEntries(ctx, out, s); err != nil {
			return err
		}
	}

	sess := session.New(s, out, session.Options{
		Filter:        noise.New(cfg.Noise.ExtraWords),
		Metrics:       m,
		Tracker:       tracker,
		MaxWordLength: cfg.Index.MaxWordLength,
		SessionID:     sessionID,
	})
	if err := sess.Run(ctx, in); err != nil {
		return fmt.Errorf("search session: %w", err)
	}
	slog.Debug("search session finished", "file", path)
	return nil
}

func dumpEntries(ctx context.Context, out io.Writer, s store.Store) error {
	entries, err := s.Entries(ctx)
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s %d:", e.Word, e.Count)
		for _, line := range e.Lines {
			fmt.Fprintf(out, " %d", line)
		}
		fmt.Fprintln(out)
	}
	return nil
}
