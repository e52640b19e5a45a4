// cmtsim simulates a clock-management tile from the command line.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use: "cmtsim",
	Short: "cmtsim runs behavioral simulations of a multi-output " +
		"clock-management tile.",
	Long: `cmtsim runs behavioral simulations of a multi-output ` +
		`clock-management tile. It derives up to seven output clocks plus a ` +
		`feedback clock from a reference clock through a multiply/divide VCO, ` +
		`reproducing the phase and duty-cycle granularity of real hardware.`,
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
