// AngelaMos | 2026
// commands.go

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/carterperez-dev/panelcatalog/internal/catalog"
	"github.com/carterperez-dev/panelcatalog/internal/client"
	"github.com/carterperez-dev/panelcatalog/internal/product"
)

func printJSON(e env, v any) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func oneID(cmd string, args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%s: expected exactly one product id", cmd)
	}
	return args[0], nil
}

func cmdLogin(ctx context.Context, c *client.Client, args []string, e env) error {
	if len(args) != 2 {
		return errors.New("login: expected <username> <password>")
	}

	resp, err := c.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(e.stdout, resp.Token)
	return err
}

func cmdMe(ctx context.Context, c *client.Client, e env) error {
	user, err := c.Me(ctx)
	if err != nil {
		return err
	}
	return printJSON(e, user)
}

func cmdList(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	all := fs.Bool("all", false, "include disabled products")
	asCSV := fs.Bool("csv", false, "write CSV instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	products, err := c.ListProducts(ctx, !*all)
	if err != nil {
		return err
	}

	if *asCSV {
		return product.WriteCSV(e.stdout, products)
	}
	return printJSON(e, products)
}

func cmdGet(ctx context.Context, c *client.Client, args []string, e env) error {
	id, err := oneID("get", args)
	if err != nil {
		return err
	}

	p, err := c.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(e, p)
}

func readRequest(fs *flag.FlagSet, args []string) (product.ProductRequest, []string, error) {
	path := fs.String("f", "", "product JSON file")
	if err := fs.Parse(args); err != nil {
		return product.ProductRequest{}, nil, err
	}
	if *path == "" {
		return product.ProductRequest{}, nil, fmt.Errorf("%s: -f is required", fs.Name())
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return product.ProductRequest{}, nil, fmt.Errorf("read %s: %w", *path, err)
	}

	var req product.ProductRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return product.ProductRequest{}, nil, fmt.Errorf("parse %s: %w", *path, err)
	}

	return req, fs.Args(), nil
}

func cmdCreate(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	req, _, err := readRequest(fs, args)
	if err != nil {
		return err
	}

	p, err := c.CreateProduct(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(e, p)
}

func cmdUpdate(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	req, rest, err := readRequest(fs, args)
	if err != nil {
		return err
	}
	id, err := oneID("update", rest)
	if err != nil {
		return err
	}

	p, err := c.UpdateProduct(ctx, id, req)
	if err != nil {
		return err
	}
	return printJSON(e, p)
}

func cmdToggle(ctx context.Context, c *client.Client, args []string, e env) error {
	id, err := oneID("toggle", args)
	if err != nil {
		return err
	}

	p, err := c.ToggleProduct(ctx, id)
	if err != nil {
		return err
	}

	state := "disabled"
	if p.Enabled {
		state = "enabled"
	}
	_, err = fmt.Fprintf(e.stdout, "%s %s\n", p.ID, state)
	return err
}

func cmdDelete(ctx context.Context, c *client.Client, args []string, e env) error {
	id, err := oneID("delete", args)
	if err != nil {
		return err
	}

	if err := c.DeleteProduct(ctx, id); err != nil {
		return err
	}

	_, err = fmt.Fprintf(e.stdout, "%s deleted\n", id)
	return err
}

// listFlag collects the values of a repeated flag. Values are not split on
// commas because fire classes contain them.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, "|") }

func (l *listFlag) Set(v string) error {
	if v = strings.TrimSpace(v); v != "" {
		*l = append(*l, v)
	}
	return nil
}

func cmdCatalog(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	var f catalog.Filter
	fs.StringVar(&f.Search, "search", "", "match name, description or features")
	fs.Var((*listFlag)(&f.Types), "type", "product type, repeatable")
	fs.Var((*listFlag)(&f.Cores), "core", "core material, repeatable")
	fs.Var((*listFlag)(&f.Facings), "facing", "facing, repeatable")
	fs.Var((*listFlag)(&f.FireClasses), "fire", "fire class, repeatable")
	fs.Var((*listFlag)(&f.Colors), "color", "color, repeatable")
	fs.Var((*listFlag)(&f.Profiles), "profile", "profile, repeatable")
	minThickness := fs.Int("min", -1, "minimum thickness in mm")
	maxThickness := fs.Int("max", -1, "maximum thickness in mm")
	all := fs.Bool("all", false, "include disabled products")
	facets := fs.Bool("facets", false, "print the available filter values instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *minThickness >= 0 {
		f.ThicknessMin = minThickness
	}
	if *maxThickness >= 0 {
		f.ThicknessMax = maxThickness
	}

	products, fallback, err := c.Catalog(ctx, !*all)
	if err != nil {
		return err
	}
	if fallback {
		fmt.Fprintln(e.stderr, "api unavailable, showing bundled catalog") //nolint:errcheck
	}

	if *facets {
		return printJSON(e, catalog.BuildFacets(products))
	}

	visible := catalog.Apply(products, f)
	for _, p := range visible {
		if _, err := fmt.Fprintf(e.stdout, "%-22s %-12s %-9s %4dmm  %s\n",
			p.ID, p.Type, p.Core, p.Thickness, p.Name); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(e.stdout, "%d of %d products\n", len(visible), len(products))
	return err
}
