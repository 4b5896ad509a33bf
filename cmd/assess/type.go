package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"psy-consensus/internal/consensus"
	"psy-consensus/internal/domain"
)

var typeCmd = &cobra.Command{
	Use:   "type O C E A N",
	Short: "Calcula el tipo de cuatro letras para cinco totales (1-5)",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		totals, err := parseTotals(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), consensus.CategoricalType(totals))
		return nil
	},
}

func parseTotals(args []string) (domain.Big5Profile, error) {
	var p domain.Big5Profile
	for i, t := range domain.AllTraits() {
		v, err := strconv.Atoi(args[i])
		if err != nil || v < domain.ScoreLow || v > domain.ScoreHigh {
			return p, fmt.Errorf("%s: %q is not an integer between 1 and 5", t, args[i])
		}
		p.Set(t, v)
	}
	return p, nil
}
