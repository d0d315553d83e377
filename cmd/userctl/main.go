// Command userctl provisions user accounts for the docqa service.
//
// Usage:
//
//	userctl -config config.yaml add -username alice -password s3cret [-full-name "Alice Doe"] [-email alice@example.com] [-disabled]
//	userctl -config config.yaml list
//
// Accounts are written to whichever user store the configuration selects.
// The file store rewrites the whole user file on every add, so concurrent
// invocations are not safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/docqa-dev/docqa/pkg/auth"
	"github.com/docqa-dev/docqa/pkg/config"
	"github.com/docqa-dev/docqa/pkg/users"
	"github.com/docqa-dev/docqa/pkg/users/file"
	"github.com/docqa-dev/docqa/pkg/users/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "userctl:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  userctl [-config file] add -username NAME -password PASSWORD [-full-name NAME] [-email EMAIL] [-disabled]
  userctl [-config file] list
`)
	flag.PrintDefaults()
}

func run(configPath, command string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening user store: %w", err)
	}
	defer store.Close()

	switch command {
	case "add":
		return addUser(store, args)
	case "list":
		return listUsers(store)
	default:
		return fmt.Errorf("unknown command %q (want add or list)", command)
	}
}

func openStore(cfg *config.Config) (users.Store, error) {
	if cfg.Users.Store == "postgres" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Users.Postgres.DSN,
			MaxConns:       cfg.Users.Postgres.MaxConns,
			MigrateOnStart: cfg.Users.Postgres.MigrateOnStart,
		})
	}
	return file.New(cfg.Users.File)
}

func addUser(store users.Store, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	username := fs.String("username", "", "login name (required)")
	password := fs.String("password", "", "plaintext password to hash (required)")
	fullName := fs.String("full-name", "", "display name")
	email := fs.String("email", "", "contact address")
	disabled := fs.Bool("disabled", false, "create the account disabled")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *password == "" {
		return fmt.Errorf("add requires -username and -password")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u := &users.User{
		Username:       *username,
		FullName:       *fullName,
		Email:          *email,
		HashedPassword: hash,
		Disabled:       *disabled,
	}
	if err := store.Create(ctx, u); err != nil {
		return fmt.Errorf("creating user %s: %w", *username, err)
	}

	fmt.Printf("created user %s (id %d)\n", u.Username, u.ID)
	return nil
}

func listUsers(store users.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	all, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	for _, u := range all {
		state := "enabled"
		if u.Disabled {
			state = "disabled"
		}
		fmt.Printf("%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.FullName, u.Email, state)
	}
	return nil
}
