// Package admincli implements the operator command line for the admin gRPC
// API: it mints a short-lived admin token and prints each response as JSON.
package admincli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const usage = `usage: admin [flags] <command> [args]

commands:
  summary            per-team totals
  team <name>        emails registered for a team
  users              every stored profile
  export             upload a CSV export
  broadcast [text]   message every user (start notice when text is empty)`

type Config struct {
	Addr     string
	AdminID  int64
	Secret   string
	TokenTTL time.Duration
	Timeout  time.Duration
}

// ParseArgs reads the flags and returns the remaining command words.
func ParseArgs(args []string) (Config, []string, error) {
	cfg := Config{}

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "addr", "localhost:50051", "admin API address")
	fs.Int64Var(&cfg.AdminID, "admin-id", 0, "admin chat id the token is issued for")
	fs.StringVar(&cfg.Secret, "secret", "", "admin token secret (default $ADMIN_TOKEN_SECRET, then prompt)")
	fs.DurationVar(&cfg.TokenTTL, "ttl", 5*time.Minute, "token lifetime")
	fs.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "call timeout")

	if err := fs.Parse(args); err != nil {
		return cfg, nil, fmt.Errorf("%w\n%s", err, usage)
	}
	if cfg.AdminID == 0 {
		return cfg, nil, fmt.Errorf("-admin-id is required\n%s", usage)
	}
	if fs.NArg() == 0 {
		return cfg, nil, errors.New(usage)
	}
	return cfg, fs.Args(), nil
}

// ResolveSecret falls back to $ADMIN_TOKEN_SECRET and then to a prompt on w.
func (c *Config) ResolveSecret(w io.Writer) error {
	if c.Secret == "" {
		c.Secret = os.Getenv("ADMIN_TOKEN_SECRET")
	}
	if c.Secret != "" {
		return nil
	}
	secret, err := GetSecret(w)
	if err != nil {
		return err
	}
	if secret == "" {
		return errors.New("empty admin token secret")
	}
	c.Secret = secret
	return nil
}

// MintToken issues a token for cfg.AdminID signed with the derived key.
func MintToken(cfg Config) (string, error) {
	key, err := auth.DeriveKey(cfg.Secret)
	if err != nil {
		return "", err
	}
	return auth.GenerateToken(cfg.AdminID, key, cfg.TokenTTL)
}

type adminAPI interface {
	TeamSummary(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListByTeam(ctx context.Context, team string, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListAll(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error)
	Export(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error)
	Broadcast(ctx context.Context, text string, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type App struct {
	api     adminAPI
	out     io.Writer
	timeout time.Duration
}

func NewApp(api adminAPI, out io.Writer, timeout time.Duration) *App {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &App{api: api, out: out, timeout: timeout}
}

// Run executes one command and writes its response.
func (a *App) Run(ctx context.Context, cmd []string) error {
	if len(cmd) == 0 {
		return errors.New(usage)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var (
		resp *structpb.Struct
		err  error
	)
	switch cmd[0] {
	case "summary":
		resp, err = a.api.TeamSummary(ctx)
	case "team":
		if len(cmd) < 2 {
			return errors.New("team name is required")
		}
		resp, err = a.api.ListByTeam(ctx, strings.Join(cmd[1:], " "))
	case "users":
		resp, err = a.api.ListAll(ctx)
	case "export":
		resp, err = a.api.Export(ctx)
	case "broadcast":
		resp, err = a.api.Broadcast(ctx, strings.Join(cmd[1:], " "))
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd[0], usage)
	}
	if err != nil {
		return err
	}

	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}
