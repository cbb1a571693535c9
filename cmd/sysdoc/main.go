package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc"
)

var version = "0.1.0"

// Exit codes by error category.
const (
	exitOK        = 0
	exitFailure   = 1
	exitStructure = 2
	exitAsset     = 3
	exitPackaging = 4
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("sysdoc"),
		kong.Description("Generate Word documents from system documentation sources"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err := ctx.Run(&Global{}); err != nil {
		fmt.Fprintf(os.Stderr, "sysdoc: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	switch sysdoc.GetErrorCategory(err) {
	case sysdoc.CategoryStructure:
		return exitStructure
	case sysdoc.CategoryAsset:
		return exitAsset
	case sysdoc.CategoryPackaging:
		return exitPackaging
	}
	return exitFailure
}
