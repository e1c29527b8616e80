package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phatcz/TiktokClipGenerator/internal/logging"
	"github.com/phatcz/TiktokClipGenerator/internal/providers/registry"
)

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show which provider backs each capability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			reg := registry.New(cfg, logging.NewNop())
			rows := [][]string{
				{"image", cfg.Providers.Image, reg.ResolveImage().Name()},
				{"video", cfg.Providers.Video, reg.ResolveVideo().Name()},
				{"audio", cfg.Providers.Audio, reg.ResolveAudio().Name()},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Capability", "Configured", "Resolved"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
