package main

import (
	"fmt"
	"os"

	"github.com/zjy-dev/vcov/cmd/vcov/app"
	"github.com/zjy-dev/vcov/internal/logger"
)

func main() {
	defer logger.Close()
	if err := app.NewVcovCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
