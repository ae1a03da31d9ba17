package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"jagriti-backend/lib/scrapers/jagriti"
)

func init() {
	rootCmd.AddCommand(statesCmd)
}

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "List the states and union territories the portal covers.",
	Run: func(cmd *cobra.Command, args []string) {
		var body struct {
			States []jagriti.State `json:"states"`
		}
		res, err := client.R().
			SetContext(cmd.Context()).
			SetResult(&body).
			Get("/v1/states")
		failOnAPIError(res, err)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Name"})
		for _, s := range body.States {
			t.AppendRow(table.Row{s.ID, s.DisplayName})
		}
		t.Render()
	},
}
