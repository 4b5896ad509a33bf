package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Lista las preguntas de la bateria",
	RunE: func(cmd *cobra.Command, args []string) error {
		battery, err := loadBattery(batteryPath)
		if err != nil {
			return err
		}
		t := newTable(cmd.OutOrStdout(), []string{"Item", "Rasgo", "Inv", "Pregunta"})
		for _, it := range battery.Items {
			_ = t.Append([]string{it.ID, string(it.PrimaryTrait), yesNo(it.IsReversed), it.Context})
		}
		if err := t.Render(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d preguntas\n", len(battery.Items))
		return nil
	},
}

func init() {
	questionsCmd.Flags().StringVar(&batteryPath, "battery", "", "bateria YAML (por defecto la OCEAN de 15 preguntas)")
}
