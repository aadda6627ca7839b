package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cfcosta/fictional-octo-dollop/internal/accounts"
	"github.com/cfcosta/fictional-octo-dollop/internal/batch"
	"github.com/cfcosta/fictional-octo-dollop/internal/config"
	"github.com/cfcosta/fictional-octo-dollop/internal/engine"
	"github.com/cfcosta/fictional-octo-dollop/internal/journal"
	"github.com/cfcosta/fictional-octo-dollop/internal/logging"
	"github.com/cfcosta/fictional-octo-dollop/internal/model"
	"github.com/cfcosta/fictional-octo-dollop/internal/rejectlog"
)

func newProcessCommand() *cobra.Command {
	var configPath string
	var policy string
	var strict bool
	var rejectsPath string
	var outputPath string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "process <input.csv>",
		Short: "Apply a CSV of transactions and print the account snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("policy") {
				cfg.Processing.Policy = policy
			}
			if flags.Changed("strict") {
				cfg.Processing.StrictInvariants = strict
			}
			if flags.Changed("rejects") {
				cfg.Output.RejectsPath = rejectsPath
			}
			if flags.Changed("output") {
				cfg.Output.Path = outputPath
			}
			if flags.Changed("log-level") {
				cfg.Logging.Level = logLevel
			}

			return runProcess(cmd.Context(), cmd.OutOrStdout(), args[0], cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.FileName, "config file (optional unless set explicitly)")
	cmd.Flags().StringVar(&policy, "policy", "skip", "on a bad record or input: skip or abort")
	cmd.Flags().BoolVar(&strict, "strict", false, "panic on ledger invariant violations")
	cmd.Flags().StringVar(&rejectsPath, "rejects", "", "write rejected records to this CSV file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the snapshot here instead of stdout")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	return cmd
}

// loadConfig reads the config file. A missing default file is not an error.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

func runProcess(ctx context.Context, stdout io.Writer, inputPath string, cfg *config.Config) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	pol, err := batch.ParsePolicy(cfg.Processing.Policy)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Environment: logging.Environment(cfg.Logging.Environment),
		Level:       cfg.Logging.Level,
	})
	if err != nil {
		return err
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	opts := batch.Options{Policy: pol, Logger: logger}
	if cfg.Output.RejectsPath != "" {
		rw, err := rejectlog.Create(cfg.Output.RejectsPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rw.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing reject log: %w", cerr)
			}
		}()
		opts.Rejects = rw
	}

	eng := engine.New(
		engine.WithLogger(logger),
		engine.WithStrictInvariants(cfg.Processing.StrictInvariants),
	)

	logger.Info("batch started", zap.String("input", inputPath), zap.String("policy", string(pol)))
	if _, err := batch.Run(ctx, journal.NewReader(f), eng, opts); err != nil {
		logger.Error("batch failed", zap.Error(err))
		return err
	}

	rows := eng.Finalize()
	if verrs := accounts.Validate(rows); len(verrs) > 0 {
		for _, ve := range verrs {
			logger.Error("ledger invariant violated", zap.Error(ve))
		}
		return verrs[0]
	}

	return writeSnapshot(stdout, cfg.Output.Path, rows)
}

func writeSnapshot(stdout io.Writer, path string, rows []model.Row) error {
	if path == "" {
		return accounts.WriteRows(stdout, rows)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := accounts.WriteRows(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
