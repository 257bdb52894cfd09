package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"authorstore/internal/core/domain"
	"authorstore/internal/core/port"
	"authorstore/pkg/config"
)

const usage = `usage: authorctl [-env file] <command> [args]

commands:
  migrate                 apply pending migrations
  list [-limit n] [-cursor c]
                          print every author, or one page of them
  show <id>               print one author
  register [flags]        create an author
  activate <id> <token>   clear a pending activation token
  delete <id>             remove an author
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "authorctl:", err)
		os.Exit(exitCode(err))
	}
}

var errUsage = errors.New("invalid usage")

func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, domain.ErrNotFound):
		return 3
	default:
		return 1
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("authorctl", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	envFile := global.String("env", ".env", "dotenv file to load")

	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w: %v\n%s", errUsage, err, usage)
	}

	if global.NArg() == 0 {
		return fmt.Errorf("%w: missing command\n%s", errUsage, usage)
	}

	name, rest := global.Arg(0), global.Args()[1:]

	handler, ok := commands[name]

	if !ok {
		return fmt.Errorf("%w: unknown command %q\n%s", errUsage, name, usage)
	}

	cfg, err := config.Load(*envFile)

	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, out)

	if err != nil {
		return err
	}

	defer a.close(context.WithoutCancel(ctx))

	return handler(ctx, a, rest)
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"migrate":  migrateCommand,
	"list":     listCommand,
	"show":     showCommand,
	"register": registerCommand,
	"activate": activateCommand,
	"delete":   deleteCommand,
}

// Opening the store already applies migrations.
func migrateCommand(ctx context.Context, a *app, args []string) error {
	return a.print(map[string]string{"status": "migrated", "driver": a.cfg.DBDriver})
}

func listCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	limit := fs.Int("limit", 0, "page size, 0 lists everything")
	after := fs.String("cursor", "", "next_cursor of the previous page")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *limit > 0 || *after != "" {
		if *limit <= 0 {
			*limit = 20
		}

		page, err := a.service.ListPage(ctx, *after, *limit)

		if err != nil {
			return err
		}

		return a.print(page)
	}

	authors, err := a.service.List(ctx)

	if err != nil {
		return err
	}

	if authors == nil {
		authors = []*domain.Author{}
	}

	return a.print(authors)
}

func showCommand(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: show <id>", errUsage)
	}

	author, found, err := a.service.Get(ctx, args[0])

	if err != nil {
		return err
	}

	if !found {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, args[0])
	}

	return a.print(author)
}

func registerCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var req port.RegisterAuthor
	fs.StringVar(&req.Email, "email", "", "author email")
	fs.StringVar(&req.Username, "username", "", "author username")
	fs.StringVar(&req.AvatarURL, "avatar", "", "avatar url")
	fs.StringVar(&req.Password, "password", os.Getenv("AUTHOR_PASSWORD"), "plain password, defaults to $AUTHOR_PASSWORD")
	fs.BoolVar(&req.NeedActivation, "activation", false, "issue an activation token")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	author, err := a.service.Register(ctx, req)

	if err != nil {
		return err
	}

	a.logger.Ctx(ctx).Info("Author registered")

	return a.print(author)
}

func activateCommand(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: activate <id> <token>", errUsage)
	}

	if err := a.service.Activate(ctx, args[0], args[1]); err != nil {
		return err
	}

	return a.print(map[string]string{"status": "activated", "authorId": args[0]})
}

func deleteCommand(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete <id>", errUsage)
	}

	if err := a.service.Remove(ctx, args[0]); err != nil {
		return err
	}

	return a.print(map[string]string{"status": "deleted", "authorId": args[0]})
}

func (a *app) print(v any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
