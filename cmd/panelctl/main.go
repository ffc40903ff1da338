// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/carterperez-dev/panelcatalog/internal/client"
)

const usage = `usage: panelctl [flags] <command> [args]

commands:
  login <username> <password>   print a token for PANELCTL_TOKEN
  me                            show the signed-in user
  list [-all] [-csv]            list products
  get <id>                      show one product
  create -f <file.json>         create a product
  update -f <file.json> <id>    replace a product
  toggle <id>                   flip a product's enabled flag
  delete <id>                   soft-delete a product
  catalog [filters]             public view with local filtering

flags:
`

type env struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	e := env{stdout: os.Stdout, stderr: os.Stderr, getenv: os.Getenv}
	if err := run(ctx, os.Args[1:], e); err != nil {
		fmt.Fprintln(os.Stderr, "panelctl:", err) //nolint:errcheck
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			for _, fe := range apiErr.FieldErrors() {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message) //nolint:errcheck
			}
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, e env) error {
	fs := flag.NewFlagSet("panelctl", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprint(e.stderr, usage) //nolint:errcheck
		fs.PrintDefaults()
	}

	defaultURL := e.getenv("PANELCTL_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:4000/api"
	}
	baseURL := fs.String("url", defaultURL, "API base URL (env PANELCTL_URL)")
	token := fs.String("token", e.getenv("PANELCTL_TOKEN"), "bearer token (env PANELCTL_TOKEN)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	c := client.New(*baseURL, client.NewSession(*token))
	cmd, cmdArgs := rest[0], rest[1:]

	switch cmd {
	case "login":
		return cmdLogin(ctx, c, cmdArgs, e)
	case "me":
		return cmdMe(ctx, c, e)
	case "list":
		return cmdList(ctx, c, cmdArgs, e)
	case "get":
		return cmdGet(ctx, c, cmdArgs, e)
	case "create":
		return cmdCreate(ctx, c, cmdArgs, e)
	case "update":
		return cmdUpdate(ctx, c, cmdArgs, e)
	case "toggle":
		return cmdToggle(ctx, c, cmdArgs, e)
	case "delete":
		return cmdDelete(ctx, c, cmdArgs, e)
	case "catalog":
		return cmdCatalog(ctx, c, cmdArgs, e)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}
