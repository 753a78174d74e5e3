// Command seed loads user fixtures from a YAML file and creates them through
// the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, seeds every fixture and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		file    = fs.String("file", "users.yaml", "YAML file with a top-level users list")
		baseURL = fs.String("base-url", "http://localhost:8080/api", "API base URL including the base path")
		format  = fs.String("format", "plain", "Output format: plain or json")
		timeout = fs.Duration("timeout", 10*time.Second, "Per-request timeout")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outFormat := strings.ToLower(*format)
	if outFormat != "plain" && outFormat != "json" {
		fmt.Fprintln(stderr, "invalid format; use plain or json")
		return 1
	}

	fixtures, err := loadFixtures(*file)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	client := newAPIClient(*baseURL, &http.Client{Timeout: *timeout})

	created := make([]any, 0, len(fixtures))
	for i, f := range fixtures {
		user, err := client.createUser(ctx, f.toRequest())
		if err != nil {
			fmt.Fprintf(stderr, "user %d (%s): %v\n", i+1, f.Email, err)
			return 1
		}

		if outFormat == "plain" {
			fmt.Fprintln(stdout, user.ID)
			continue
		}
		created = append(created, user)
	}

	if outFormat == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(created)
	}

	return 0
}
