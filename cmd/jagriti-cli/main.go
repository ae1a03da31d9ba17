package main

import (
	"jagriti-backend/cmd/jagriti-cli/cmd"
	"jagriti-backend/lib/configutil"
)

func main() {
	configutil.LoadDotenv()
	cmd.BaseUrl = configutil.Env("JAGRITI_API_URL", "http://127.0.0.1:8130")
	cmd.Execute()
}
