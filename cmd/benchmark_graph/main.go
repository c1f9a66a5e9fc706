package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

const (
	scenariosKey = "scenarios"
	onlyKey      = "only"
	repeatsKey   = "repeats"
	formatKey    = "format"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark_graph",
		Usage: "Run layered computed-graph scenarios over an observed record",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  scenariosKey,
				Usage: "TOML file of [[scenario]] tables, empty for the built-in set",
			},
			&cli.StringFlag{
				Name:  onlyKey,
				Usage: "Run only the scenario with this name",
			},
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Timed runs per scenario, the fastest is reported",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  formatKey,
				Usage: "Output format: table or json",
				Value: "table",
			},
		},
		Action: benchmark,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func benchmark(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting graph benchmark, please wait...")
	defer log.Print("Finished graph benchmark")

	format := cmd.String(formatKey)
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}
	repeats := int(cmd.Uint(repeatsKey))
	if repeats < 1 {
		return errors.New("repeats must be positive")
	}

	all, err := loadScenarios(cmd.String(scenariosKey))
	if err != nil {
		return err
	}
	scenarios := filterScenarios(all, cmd.String(onlyKey))
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenario named %q", cmd.String(onlyKey))
	}

	results := make([]result, 0, len(scenarios))
	for _, sc := range scenarios {
		log.Printf("Running '%s' config", sc.Name)
		results = append(results, runScenario(sc, repeats))
	}

	if format == "json" {
		writeJSON(os.Stdout, results)
		return nil
	}
	writeTable(os.Stdout, results)
	return nil
}
