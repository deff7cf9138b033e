package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/viant/assent"
	"github.com/viant/assent/internal/scenario"
	"github.com/viant/assent/service/messaging/memory"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "assent",
		Short:         "Replay consent scenarios against a coordinator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(runCmd(), versionCmd())
	return cmd
}

func runCmd() *cobra.Command {
	var configURL string
	var verbose bool
	var events bool
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario and print its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := assent.DefaultConfig()
			if configURL != "" {
				loaded, err := assent.LoadConfig(ctx, configURL)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if events {
				cfg.Events.Enabled = true
			}
			s, err := scenario.Load(ctx, args[0])
			if err != nil {
				return err
			}

			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
			c, err := assent.NewFromConfig(cfg, assent.WithLogger(logger))
			if err != nil {
				return err
			}
			result := scenario.Run(s, c)

			out := cmd.OutOrStdout()
			if result.Name != "" {
				fmt.Fprintf(out, "# %s\n", result.Name)
			}
			for _, line := range result.Transcript {
				fmt.Fprintln(out, line)
			}
			if events {
				if err = printEvents(ctx, out, c); err != nil {
					return err
				}
			}
			if len(s.Expect) > 0 {
				if ok, diff := result.Matches(s.Expect); !ok {
					return fmt.Errorf("transcript mismatch: %s", diff)
				}
				fmt.Fprintln(out, "# transcript matches")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configURL, "config", "c", "", "coordinator config (yaml, toml or json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log coordinator transitions")
	cmd.Flags().BoolVarP(&events, "events", "e", false, "print lifecycle events after the transcript")
	return cmd
}

// printEvents drains the buffered lifecycle events of c.
func printEvents(ctx context.Context, out io.Writer, c *assent.Coordinator) error {
	queue, ok := c.Events().(*memory.Queue[assent.Event])
	if !ok {
		return nil
	}
	for queue.Size() > 0 {
		msg, err := queue.Consume(ctx)
		if err != nil {
			return err
		}
		event := msg.T()
		fmt.Fprintln(out, strings.TrimSpace("event "+event.Topic+" "+event.Key))
		if err = msg.Ack(); err != nil {
			return err
		}
	}
	if dropped := queue.DLQSize(); dropped > 0 {
		fmt.Fprintf(out, "# %d events dead-lettered\n", dropped)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the module version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), assent.Version)
		},
	}
}
