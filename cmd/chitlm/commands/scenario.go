package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ardent-systems/chitlm/internal/generator"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Work with scenario files",
}

var scenarioValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Parse a scenario file and report whether it is well-formed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := generator.LoadScenario(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("scenario %q: %d transactions, ok\n", s.Name, len(s.Transactions))
		return nil
	},
}

func init() {
	scenarioCmd.AddCommand(scenarioValidateCmd)
	rootCmd.AddCommand(scenarioCmd)
}
