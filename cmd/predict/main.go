// Command predict runs one JSON observation file through the redshift
// pipeline and prints the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"redshift-backend/internal/app"
	"redshift-backend/internal/config"
	"redshift-backend/internal/document"
	"redshift-backend/internal/schema"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	envPath := flag.String("env", ".env", "path to an optional .env file")
	file := flag.String("file", "-", "observation JSON file, - for stdin")
	all := flag.Bool("all", false, "print one prediction per record")
	flag.Parse()

	os.Exit(run(*configPath, *envPath, *file, *all, os.Stdout, os.Stderr))
}

func run(configPath, envPath, file string, all bool, stdout, stderr io.Writer) int {
	log.SetOutput(stderr)

	if err := config.LoadEnvFile(envPath); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 2
	}

	raw, err := readInput(file)
	if err != nil {
		fmt.Fprintf(stderr, "read %s: %v\n", file, err)
		return 2
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "open artifact store: %v\n", err)
		return 2
	}
	defer application.Close()

	out, err := application.Predictor.Run(ctx, raw)
	if err != nil {
		fmt.Fprintln(stderr, userMessage(err))
		return 1
	}

	if all {
		for _, p := range out.Predictions {
			fmt.Fprintln(stdout, p)
		}
		return 0
	}
	fmt.Fprintf(stdout, "Predicted Redshifts: %v\n", out.Redshift)
	return 0
}

func readInput(file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file)
}

func userMessage(err error) string {
	var (
		malformed *document.MalformedInputError
		mismatch  *schema.MismatchError
	)
	switch {
	case errors.As(err, &malformed):
		return "Invalid JSON file. Please upload a valid JSON file."
	case errors.As(err, &mismatch):
		msg := fmt.Sprintf("The uploaded JSON file does not contain all the required columns (missing %q).", mismatch.Missing)
		if mismatch.Suggestion != "" {
			msg += fmt.Sprintf(" Did you mean %q?", mismatch.Suggestion)
		}
		return msg
	default:
		return "Error in processing the file."
	}
}
