package main

import (
	"fmt"
	"os"

	"usage-report-server/cmd/api-server/app"
	"usage-report-server/cmd/api-server/app/options"
	_ "usage-report-server/docs"
	log "usage-report-server/internal/logger"
)

// @title Usage Report API
// @version 1.0
// @description Compute and network usage summaries per project
// @BasePath /
func main() {
	option, err := options.NewOptions()
	if err != nil {
		fmt.Print(option.Usage(err))
		os.Exit(1)
	}

	logger, err := log.SetupLogger(*option.LogFile, *option.Mode)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if err := app.Run(option, logger); err != nil {
		os.Exit(1)
	}
}
