package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"jagriti-backend/lib/scrapers/jagriti"
)

var searchFlags struct {
	state      string
	commission string
	caseType   string
	dateFilter string
	fromDate   string
	toDate     string
}

// one subcommand per searchable field, all hitting the matching API
// route
var searchFields = []struct {
	use    string
	short  string
	suffix string
}{
	{"case-number <value>", "Search by case number.", "by-case-number"},
	{"complainant <value>", "Search by complainant name.", "by-complainant"},
	{"respondent <value>", "Search by respondent name.", "by-respondent"},
	{"complainant-advocate <value>", "Search by complainant advocate name.", "by-complainant-advocate"},
	{"respondent-advocate <value>", "Search by respondent advocate name.", "by-respondent-advocate"},
	{"industry-type <value>", "Search by industry type.", "by-industry-type"},
	{"judge <value>", "Search by judge name.", "by-judge"},
}

func init() {
	searchCmd.PersistentFlags().StringVar(&searchFlags.state, "state", "", "state or UT name (required)")
	searchCmd.PersistentFlags().StringVar(&searchFlags.commission, "commission", "", "district commission name (required)")
	searchCmd.PersistentFlags().StringVar(&searchFlags.caseType, "case-type", "", "daily_order, interim_order or final_order")
	searchCmd.PersistentFlags().StringVar(&searchFlags.dateFilter, "date-filter", "", "filing_date or order_date")
	searchCmd.PersistentFlags().StringVar(&searchFlags.fromDate, "from", "", "start of the date window (YYYY-MM-DD)")
	searchCmd.PersistentFlags().StringVar(&searchFlags.toDate, "to", "", "end of the date window (YYYY-MM-DD)")
	searchCmd.MarkPersistentFlagRequired("state")
	searchCmd.MarkPersistentFlagRequired("commission")

	for _, field := range searchFields {
		suffix := field.suffix
		searchCmd.AddCommand(&cobra.Command{
			Use:   field.use,
			Short: field.short,
			Run: func(cmd *cobra.Command, args []string) {
				if len(args) != 1 {
					fmt.Fprintln(os.Stderr, "incorrect number of arguments")
					os.Exit(1)
				}
				runSearch(cmd, suffix, args[0])
			},
		})
	}

	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search cases in a district commission.",
}

func runSearch(cmd *cobra.Command, suffix, value string) {
	request := map[string]string{
		"state":        searchFlags.state,
		"commission":   searchFlags.commission,
		"search_value": value,
	}
	if searchFlags.caseType != "" {
		request["case_type"] = searchFlags.caseType
	}
	if searchFlags.dateFilter != "" {
		request["date_filter"] = searchFlags.dateFilter
	}
	if searchFlags.fromDate != "" {
		request["from_date"] = searchFlags.fromDate
	}
	if searchFlags.toDate != "" {
		request["to_date"] = searchFlags.toDate
	}

	var body struct {
		Count int                  `json:"count"`
		Cases []jagriti.CaseRecord `json:"cases"`
	}
	res, err := client.R().
		SetContext(cmd.Context()).
		SetBody(request).
		SetResult(&body).
		Post("/v1/cases/" + suffix)
	failOnAPIError(res, err)

	if body.Count == 0 {
		fmt.Println("no cases found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Case Number", "Stage", "Filed", "Complainant", "Respondent"})
	for _, c := range body.Cases {
		t.AppendRow(table.Row{c.CaseNumber, c.CaseStage, c.FilingDate, c.Complainant, c.Respondent})
	}
	t.Render()
	fmt.Printf("%d case(s)\n", body.Count)
}
