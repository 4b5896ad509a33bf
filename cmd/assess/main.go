package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "assess",
	Short: "Evalua respuestas de personalidad con un panel de jueces LLM",
	Long: `assess corre el pipeline de consenso fuera del servidor HTTP:
cada item se puntua con un panel de jueces, se escala si discrepan
y al final se agregan los cinco rasgos y el tipo de cuatro letras.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd, questionsCmd, typeCmd, tokenCmd)
}
