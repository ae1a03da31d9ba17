package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var BaseUrl string

var client *resty.Client

var rootCmd = &cobra.Command{
	Use:   "jagriti-cli",
	Short: "jagriti-cli queries the e-Jagriti case tracking daemon.",
}

func Execute() {
	client = resty.New().SetBaseURL(BaseUrl)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func failOnAPIError(res *resty.Response, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !res.IsError() {
		return
	}
	var body struct {
		Error string `json:"error"`
	}
	message := res.String()
	if json.Unmarshal(res.Body(), &body) == nil && body.Error != "" {
		message = body.Error
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", res.Status(), message)
	os.Exit(1)
}
