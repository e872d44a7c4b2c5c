package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/matt-g-everett/cardtx/preview"
	"github.com/matt-g-everett/cardtx/stream"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var name string
	var cards int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Scroll through a sequence in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			seqCfg := cfg.Sequences[0]
			if name != "" {
				var ok bool
				if seqCfg, ok = cfg.Sequence(name); !ok {
					return fmt.Errorf("%w: %q", stream.ErrUnknownSequence, name)
				}
			}
			if cmd.Flags().Changed("cards") {
				seqCfg.Cards = cards
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			// The screen owns the terminal, so logs are dropped.
			logger := ctx.logger(io.Discard)
			p := preview.New(screen, seqCfg.Name)
			controller := stream.NewController(logger)
			defer controller.Close()
			if _, err := controller.Create(seqCfg, p); err != nil {
				return err
			}
			seq, _ := controller.Lookup(seqCfg.Name)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err = p.Run(runCtx, seq)
			if errors.Is(err, runCtx.Err()) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&name, "sequence", "s", "", "Sequence to preview (default: first configured)")
	cmd.Flags().IntVarP(&cards, "cards", "n", 0, "Override the number of cards")
	return cmd
}
