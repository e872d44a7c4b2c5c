package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matt-g-everett/cardtx/config"
	"github.com/matt-g-everett/cardtx/stream"
)

type statesOptions struct {
	sequence string
	cards    int
	cardsSet bool
	progress []float64
	json     bool
}

func newStatesCommand(ctx *commandContext) *cobra.Command {
	opts := statesOptions{}

	cmd := &cobra.Command{
		Use:   "states",
		Short: "Print card states at one or more progress values",
		Example: `  cardtx states --progress 0.3
  cardtx states -n 4 -p 0,0.25,0.5,0.75,1 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts.cardsSet = cmd.Flags().Changed("cards")
			return printStates(cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.sequence, "sequence", "s", "", "Sequence to compute (default: first configured)")
	cmd.Flags().IntVarP(&opts.cards, "cards", "n", 0, "Override the number of cards")
	cmd.Flags().Float64SliceVarP(&opts.progress, "progress", "p", []float64{0}, "Progress values to compute")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Emit JSON frames")
	return cmd
}

func printStates(w io.Writer, cfg *config.Config, opts statesOptions) error {
	seqCfg := cfg.Sequences[0]
	if opts.sequence != "" {
		var ok bool
		if seqCfg, ok = cfg.Sequence(opts.sequence); !ok {
			return fmt.Errorf("%w: %q", stream.ErrUnknownSequence, opts.sequence)
		}
	}
	if opts.cardsSet {
		seqCfg.Cards = opts.cards
	}

	seq, err := stream.NewSequence(seqCfg, nil)
	if err != nil {
		return err
	}
	defer seq.Close()

	frames := make([]*stream.Frame, 0, len(opts.progress))
	for _, p := range opts.progress {
		frames = append(frames, seq.Frame(p))
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(frames)
	}

	var rows [][]string
	for _, f := range frames {
		for _, c := range f.Cards {
			rows = append(rows, []string{
				strconv.FormatFloat(f.Progress, 'f', 3, 64),
				strconv.Itoa(c.Index),
				c.Phase.String(),
				strconv.FormatFloat(c.Offset, 'f', 1, 64),
				strconv.FormatFloat(c.Opacity, 'f', 3, 64),
				strconv.FormatFloat(c.Scale, 'f', 3, 64),
				strconv.Itoa(c.StackOrder),
				c.Hex,
			})
		}
	}
	_, err = fmt.Fprintln(w, renderTable(w, stateColumns, rows))
	return err
}
