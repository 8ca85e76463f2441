package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/driveaccess/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-s", "-l", "-storage", "-env"}

// flagValues keeps only the flags that were actually given, so that unset
// flags never clobber values from the environment.
type flagValues struct {
	set     map[string]string
	envFile string
}

// parseFlags reads the server flags from args.
//
//	-a string        gRPC bind address
//	-d string        PostgreSQL DSN
//	-s string        admin token secret
//	-l string        log level
//	-storage string  storage driver (postgres or memory)
//	-env string      .env file to load
func parseFlags(args []string) (*flagValues, error) {
	fs := flag.NewFlagSet("driveaccess", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.String("a", "", "address and port of the admin gRPC server")
	fs.String("d", "", "database DSN")
	fs.String("s", "", "admin token secret")
	fs.String("l", "", "log level")
	fs.String("storage", "", "storage driver")
	envFile := fs.String("env", "", "path to .env file")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return nil, err
	}

	fv := &flagValues{set: map[string]string{}, envFile: *envFile}
	fs.Visit(func(f *flag.Flag) {
		fv.set[f.Name] = f.Value.String()
	})
	return fv, nil
}

func (fv *flagValues) apply(c *Config) {
	for name, value := range fv.set {
		switch name {
		case "a":
			c.GRPCAddr = value
		case "d":
			c.DatabaseDSN = value
		case "s":
			c.AdminTokenSecret = value
		case "l":
			c.LogLevel = value
		case "storage":
			c.StorageDriver = value
		}
	}
}
