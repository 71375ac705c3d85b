// Command risch integrates an elementary expression given on the
// command line and prints the antiderivative.
//
//	risch --var x "x*exp(x)"
//	risch --latex "sin(x)/(1+cos(x)^2)"
//
// Defaults can be placed in ~/.risch.toml.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"risch"
	"risch/expr"
)

type config struct {
	Var       string `toml:"var"`
	Algebraic bool   `toml:"algebraic"`
	LaTeX     bool   `toml:"latex"`
	JSON      bool   `toml:"json"`
}

func defaultConfig() config {
	return config{Var: "x"}
}

func loadConfig() config {
	cfg := defaultConfig()
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".risch.toml")
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, err)
	}
	return cfg
}

func main() {
	cfg := loadConfig()

	var (
		flagVar      string
		algebraic    bool
		noCatchUnsup bool
		noCatchFail  bool
		latexOut     bool
		jsonOut      bool
		verbose      bool
	)

	rootCmd := &cobra.Command{
		Use:   "risch [flags] <expression>",
		Short: "Exact symbolic integration of elementary functions",
		Long: `risch computes exact antiderivatives of elementary transcendental
functions over the rationals. Pieces without an elementary
antiderivative are returned as unevaluated integrals.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := risch.DefaultOptions()
			opts.UseAlgebraicNumbers = algebraic
			opts.CatchUnsupported = !noCatchUnsup
			opts.CatchAlgorithmFailure = !noCatchFail
			if verbose {
				lg, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer lg.Sync()
				opts.Logger = lg
			}

			res, err := risch.IntegrateString(args[0], flagVar, opts)
			if err != nil {
				return err
			}

			switch {
			case jsonOut:
				data, err := expr.ToJSON(res.Value)
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			case latexOut:
				fmt.Println(res.Value.LaTeX())
			default:
				color.New(color.FgGreen).Fprintln(os.Stdout, res.Value.String())
			}
			if !res.Closed() && !jsonOut {
				color.New(color.FgYellow).Fprintf(os.Stderr,
					"no elementary antiderivative for: %s\n", res.Residual.String())
			}
			return nil
		},
	}

	rootCmd.Flags().StringVar(&flagVar, "var", cfg.Var, "integration variable")
	rootCmd.Flags().BoolVar(&algebraic, "algebraic", cfg.Algebraic, "admit algebraic constants from the start")
	rootCmd.Flags().BoolVar(&noCatchUnsup, "no-catch-unsupported", false, "fail on unsupported input instead of degrading")
	rootCmd.Flags().BoolVar(&noCatchFail, "no-catch-failure", false, "fail on algorithm failure instead of degrading")
	rootCmd.Flags().BoolVar(&latexOut, "latex", cfg.LaTeX, "print the result as LaTeX")
	rootCmd.Flags().BoolVar(&jsonOut, "json", cfg.JSON, "print the result as JSON")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace the integration pipeline")

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
