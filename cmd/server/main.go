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

	"github.com/MKhiriev/womscp-server/internal/config"
	"github.com/MKhiriev/womscp-server/internal/logger"
	"github.com/MKhiriev/womscp-server/internal/provision"
	"github.com/MKhiriev/womscp-server/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// Process exit codes.
const (
	exitOK             = 0
	exitConfigError    = 1
	exitProvisionError = 2
	exitUsage          = 64
)

const usage = `usage: womscp-server [-c FILE | --config FILE] [-a host:port] [-d locator] [init]`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Environ(), os.Stdout, logger.NewLogger("womscp-server"))
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args, environ []string, stdout io.Writer, log *logger.Logger) int {
	fmt.Fprint(stdout, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	cfg, opts, err := config.GetServerConfig(args, environ)
	switch {
	case errors.Is(err, flag.ErrHelp):
		fmt.Fprintln(stdout, usage)
		return exitOK
	case err != nil && opts == nil:
		log.Error().Err(err).Msg("invalid command line")
		fmt.Fprintln(stdout, usage)
		return exitUsage
	case err != nil:
		log.Error().Err(err).Str("config_path", opts.ConfigPath).Msg("error getting configs")
		return exitConfigError
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	if opts.Command != config.CommandInit {
		return exitOK
	}

	if err = provision.New(log).Provision(ctx, *cfg); err != nil {
		log.Error().Err(err).Msg("error provisioning database")
		return exitProvisionError
	}

	return exitOK
}
