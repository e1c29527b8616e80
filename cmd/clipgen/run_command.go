package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phatcz/TiktokClipGenerator/internal/logging"
	"github.com/phatcz/TiktokClipGenerator/internal/notifications"
	"github.com/phatcz/TiktokClipGenerator/internal/pipeline"
	"github.com/phatcz/TiktokClipGenerator/internal/runstore"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		briefPath   string
		goal        string
		product     string
		audience    string
		platform    string
		characterID int
		locationID  int
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full brief-to-video pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			brief, err := resolveBrief(briefPath, goal, product, audience, platform)
			if err != nil {
				return err
			}

			// One run at a time per data directory.
			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "clipgen.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another clipgen run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			store, err := runstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer func() { _ = store.Close() }()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := pipeline.New(cfg, logger, store, notifications.NewService(cfg))
			outcome, err := runner.Run(runCtx, brief, pipeline.Options{
				CharacterID: characterID,
				LocationID:  locationID,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, outcome.Assembly)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading(out, fmt.Sprintf("Run %d complete", outcome.RunID)))
			fmt.Fprintln(out, renderTable(
				[]string{"Segments", "Rendered", "Retries", "Output"},
				[][]string{{
					fmt.Sprintf("%d", outcome.Assembly.TotalSegments),
					fmt.Sprintf("%d", outcome.Assembly.SuccessfulSegments),
					fmt.Sprintf("%d", outcome.Assembly.RetryCount),
					outcome.Assembly.OutputPath,
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&briefPath, "brief", "b", "", "Path to a YAML brief file")
	cmd.Flags().StringVar(&goal, "goal", "", "Marketing goal (sell online course, grow followers, build brand)")
	cmd.Flags().StringVar(&product, "product", "", "Product or offer the video promotes")
	cmd.Flags().StringVar(&audience, "audience", "", "Target audience")
	cmd.Flags().StringVar(&platform, "platform", "short video", "Target platform")
	cmd.Flags().IntVar(&characterID, "character", 0, "Character candidate to use (default keeps the first)")
	cmd.Flags().IntVar(&locationID, "location", 0, "Location candidate to use (default keeps the first)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the assembly result as JSON")
	return cmd
}

// resolveBrief merges a YAML brief file with flag overrides. Flags win over
// file values so a saved brief can be tweaked per run.
func resolveBrief(path, goal, product, audience, platform string) (story.Brief, error) {
	var brief story.Brief

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return brief, fmt.Errorf("read brief file: %w", err)
		}
		if err := yaml.Unmarshal(data, &brief); err != nil {
			return brief, fmt.Errorf("parse brief file %s: %w", path, err)
		}
	}

	if goal = strings.TrimSpace(goal); goal != "" {
		brief.Goal = goal
	}
	if product = strings.TrimSpace(product); product != "" {
		brief.Product = product
	}
	if audience = strings.TrimSpace(audience); audience != "" {
		brief.Audience = audience
	}
	if platform = strings.TrimSpace(platform); platform != "" {
		brief.Platform = platform
	}
	if brief.Product == "" {
		brief.Product = deriveProductName(path)
	}

	if brief.Goal == "" || brief.Product == "" || brief.Audience == "" {
		return brief, fmt.Errorf("a brief needs goal, product, and audience (set flags or use --brief)")
	}
	return brief, nil
}
