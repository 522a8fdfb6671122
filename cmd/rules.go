package cmd

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/veridian-labs/vlin/internal"
)

// rulesCmd: vlin rules
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List all registered lint rules and their parameters",
	Run: func(cmd *cobra.Command, args []string) {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Rule", "Severity", "Parameter", "Default", "Description"})
		table.SetAutoMergeCellsByColumnIndex([]int{0, 1})
		table.SetRowLine(true)

		for _, name := range internal.RuleNames() {
			desc, ok := internal.DescribeRule(name)
			if !ok {
				continue
			}
			if len(desc.Params) == 0 {
				table.Append([]string{desc.Name, desc.DefaultSeverity.String(), "-", "-", desc.Description})
				continue
			}
			for _, param := range desc.Params {
				table.Append([]string{
					desc.Name,
					desc.DefaultSeverity.String(),
					param.Name,
					param.Default,
					param.Help,
				})
			}
		}

		table.Render()
	},
}
