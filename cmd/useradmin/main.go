// Command useradmin manages accounts directly against the configured user
// store.
//
// Usage:
//
//	useradmin [flags] register
//	useradmin [flags] list
//
// Store flags and environment variables are the same as for the server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/admin"
	"github.com/dmitrijs2005/gophauth/internal/server"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
)

func command(args []string) string {
	for _, a := range args {
		if a == "register" || a == "list" {
			return a
		}
	}
	return ""
}

func main() {
	cmd := command(os.Args[1:])
	if cmd == "" {
		fmt.Fprintln(os.Stderr, "usage: useradmin [flags] register|list")
		os.Exit(2)
	}

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := server.NewLogger(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	rm, identity, _, err := server.Services(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer rm.Close(ctx)

	switch cmd {
	case "register":
		_, err = admin.RegisterUser(ctx, identity, bufio.NewReader(os.Stdin), os.Stdout)
	case "list":
		err = admin.ListUsers(ctx, identity, os.Stdout)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		rm.Close(ctx)
		os.Exit(1)
	}
}
