package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/driveaccess/internal/admincli"
)

func run(ctx context.Context, args []string) error {
	cfg, cmd, err := admincli.ParseArgs(args)
	if err != nil {
		return err
	}

	if err := cfg.ResolveSecret(os.Stderr); err != nil {
		return err
	}

	token, err := admincli.MintToken(cfg)
	if err != nil {
		return err
	}

	client, err := admincli.NewGRPCClient(cfg.Addr, token)
	if err != nil {
		return err
	}
	defer client.Close()

	return admincli.NewApp(client, os.Stdout, cfg.Timeout).Run(ctx, cmd)
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}
