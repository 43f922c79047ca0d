package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"locshare/internal/app"
	"locshare/internal/netmon"
)

var (
	home       string
	passphrase string
	relayURL   string
	verbose    bool

	wire *app.Wire
)

// Execute builds the command tree and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:           "locshare",
		Short:         "Encrypted location sharing CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load() // best effort, flags win

			if home == "" {
				if home = os.Getenv("LOCSHARE_HOME"); home == "" {
					dir, err := os.UserHomeDir()
					if err != nil {
						return err
					}
					home = filepath.Join(dir, ".locshare")
				}
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			cfg := app.Config{
				Home:     home,
				RelayURL: relayURL,
				Logger:   initLogger(verbose),
				Notifier: netmon.NotifierFunc(func() {
					fmt.Fprintln(os.Stderr, "network unavailable; working offline")
				}),
			}.FromEnv()

			w, err := app.NewWire(cfg)
			if err != nil {
				return err
			}
			if err := w.Peers.Load(cmd.Context()); err != nil {
				return err
			}
			wire = w
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire == nil {
				return nil
			}
			if err := wire.Peers.Save(cmd.Context()); err != nil {
				return err
			}
			return wire.Close()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.locshare)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the private key")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (default $LOCSHARE_RELAY_URL)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		initCmd(),
		registerCmd(),
		publishCmd(),
		receiveCmd(),
		shareCmd(),
		peersCmd(),
		reportCmd(),
	)
	return root.ExecuteContext(context.Background())
}

// ensureIdentity loads the persisted identity, creating one on first run.
// Corrupt key material aborts here; nothing downstream runs without a
// usable identity.
func ensureIdentity() error {
	if passphrase == "" {
		return fmt.Errorf("passphrase required (-p)")
	}
	return wire.Identity.Initialize(passphrase)
}

func initLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = ""
	logger, _ := cfg.Build()
	return logger
}
