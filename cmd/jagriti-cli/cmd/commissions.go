package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"jagriti-backend/lib/scrapers/jagriti"
)

func init() {
	rootCmd.AddCommand(commissionsCmd)
}

var commissionsCmd = &cobra.Command{
	Use:   "commissions <state>",
	Short: "List the district commissions of a state.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "incorrect number of arguments")
			os.Exit(1)
		}

		var body struct {
			State       jagriti.State        `json:"state"`
			Commissions []jagriti.Commission `json:"commissions"`
		}
		res, err := client.R().
			SetContext(cmd.Context()).
			SetResult(&body).
			Get("/v1/commissions/" + url.PathEscape(args[0]))
		failOnAPIError(res, err)

		fmt.Printf("%s (%s)\n", body.State.DisplayName, body.State.ID)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Commission"})
		for _, c := range body.Commissions {
			t.AppendRow(table.Row{c.ID, c.DisplayName})
		}
		t.Render()
	},
}
