package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/config"
	"github.com/goliatone/go-mfadmin/pkg/forms"
	"github.com/goliatone/go-mfadmin/pkg/notify"
	"github.com/goliatone/go-mfadmin/pkg/pages"
	"github.com/goliatone/go-mfadmin/pkg/render"
	"github.com/goliatone/go-mfadmin/pkg/renderers/tui"
)

const usage = `usage: mfadmin-cli [flags] <command> [resource] [id]

commands:
  resources               list the known resources
  list <resource>         print the entities of resource
  create <resource>       prompt for a new entity
  edit <resource> <id>    prompt for changes to an entity
  delete <resource> <id>  delete an entity
`

type scopeFlag forms.Scope

func (s scopeFlag) String() string {
	parts := make([]string, 0, len(s))
	for key, value := range s {
		parts = append(parts, key+"="+value)
	}
	return strings.Join(parts, ",")
}

func (s scopeFlag) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("scope %q must be key=value", raw)
	}
	s[strings.TrimSpace(key)] = strings.TrimSpace(value)
	return nil
}

func main() {
	fs := flag.NewFlagSet("mfadmin-cli", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	scope := scopeFlag{}
	fs.Var(scope, "scope", "scope parameter key=value (repeatable), e.g. loanId=12")
	query := fs.String("q", "", "filter rows (list)")
	yes := fs.Bool("yes", false, "skip the delete confirmation")

	cfg, err := config.Load(config.LoadOptions{Args: os.Args[1:], FlagSet: fs})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	api, err := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTenant(cfg.API.Tenant),
		apiclient.WithBasicAuth(cfg.API.Username, cfg.API.Password),
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
	if err != nil {
		log.Fatalf("api client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	notifier := notify.New(notify.WithTTL(cfg.Toast.TTL))
	events, cancel := notifier.Subscribe(16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			if event.Type == notify.EventAdded {
				fmt.Fprintf(os.Stderr, "[%s] %s\n", event.Toast.Kind, event.Toast.Message)
			}
		}
	}()

	app := &cli{api: api, notifier: notifier, scope: forms.Scope(scope)}
	err = app.run(ctx, args, *query, *yes)
	cancel()
	<-done
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		log.Fatalf("%s: %v", args[0], err)
	}
}

type cli struct {
	api      *apiclient.Client
	notifier *notify.Notifier
	scope    forms.Scope
}

func (c *cli) run(ctx context.Context, args []string, query string, yes bool) error {
	command := args[0]
	if command == "resources" {
		return c.resources()
	}
	if len(args) < 2 {
		return fmt.Errorf("missing resource")
	}
	res, ok := pages.Lookup(args[1])
	if !ok {
		return fmt.Errorf("unknown resource %q", args[1])
	}
	page, err := pages.New(res, c.api, pages.WithNotifier(c.notifier), pages.WithScope(c.scope))
	if err != nil {
		return err
	}

	id := ""
	if len(args) > 2 {
		id = args[2]
	}
	switch command {
	case "list":
		// Load failures were already reported as toasts.
		_ = page.Load(ctx)
		return printRows(res, page.Filter(query))
	case "create":
		return c.edit(ctx, page, "")
	case "edit":
		if id == "" {
			return fmt.Errorf("missing id")
		}
		if err := page.Load(ctx); err != nil {
			if _, ok := page.Row(id); !ok {
				return err
			}
		}
		return c.edit(ctx, page, id)
	case "delete":
		if id == "" {
			return fmt.Errorf("missing id")
		}
		if !yes {
			ok, err := tui.NewSurveyDriver(os.Stderr).Confirm(ctx, tui.ConfirmConfig{
				Message: fmt.Sprintf("Delete %s %s?", strings.ToLower(res.Definition.Title), id),
			})
			if err != nil || !ok {
				return err
			}
		}
		return page.Delete(ctx, id)
	}
	return fmt.Errorf("unknown command %q", command)
}

// edit prompts until the form passes local validation and the backend
// accepts it, carrying field errors into the next round.
func (c *cli) edit(ctx context.Context, page *pages.Page, id string) error {
	form, err := page.NewForm(ctx, id)
	if err != nil {
		return err
	}
	defer form.Close()

	prompter, err := tui.New(tui.WithPromptDriver(tui.NewSurveyDriver(os.Stderr)))
	if err != nil {
		return err
	}
	for {
		values, err := prompter.Collect(ctx, form.Model(), render.RenderOptions{
			Values: form.Values(),
			Errors: form.Errors(),
		})
		if err != nil {
			return err
		}
		result, err := form.Submit(ctx, forms.Values(values))
		if err == nil {
			fmt.Printf("%s %s\n", result.Mode, result.ID)
			return nil
		}
		var invalid *forms.ValidationError
		var apiErr *apiclient.Error
		if !errors.As(err, &invalid) && !errors.As(err, &apiErr) {
			return err
		}
		retry, confirmErr := tui.NewSurveyDriver(os.Stderr).Confirm(ctx, tui.ConfirmConfig{Message: "Fix and retry?", Default: true})
		if confirmErr != nil || !retry {
			return err
		}
	}
}

func (c *cli) resources() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tENDPOINT\tSCOPE")
	for _, res := range pages.Resources() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Name(), res.Definition.Title, res.Definition.Collection, strings.Join(res.Scope, ","))
	}
	return w.Flush()
}

func printRows(res pages.Resource, rows []pages.Row) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	header := []string{"ID"}
	for _, col := range res.Columns {
		header = append(header, strings.ToUpper(col.Label))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		line := []string{row.ID}
		for _, col := range res.Columns {
			line = append(line, row.Cell(col.Key))
		}
		fmt.Fprintln(w, strings.Join(line, "\t"))
	}
	return w.Flush()
}
