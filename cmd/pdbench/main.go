package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build.
var version = "dev"

// CLI is pdbench's root command tree: validate a config, run an
// experiment, or recompute aggregates.parquet from an existing round log.
type CLI struct {
	Version   kong.VersionFlag `short:"v" help:"Show version"`
	Validate  ValidateCmd      `cmd:"" help:"Validate an experiment config and its referenced agent documents"`
	Run       RunCmd           `cmd:"" help:"Run an experiment and write round log, manifest, and aggregates"`
	Aggregate AggregateCmd     `cmd:"" help:"Recompute aggregates.parquet from an existing round log"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pdbench"),
		kong.Description("Benchmarking harness for iterated two-player matrix games"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
