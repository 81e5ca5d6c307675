package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
)

// CommandInit is the subcommand that provisions the database.
const CommandInit = "init"

// ErrUnknownCommand is returned by ParseFlags for a positional argument that
// is not a known subcommand.
var ErrUnknownCommand = errors.New("unknown command")

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// Options are the parsed command-line arguments.
type Options struct {
	// Command is the requested subcommand, empty when none was given.
	Command string
	// ConfigPath is the TOML config file path from -c / --config.
	ConfigPath string

	overrides *overlay
}

// ParseFlags parses the command-line arguments (without the program name).
//
// Flags:
//
//	-c/-config toml file path with configs
//	-a server address in format [host]:[port]
//	-d database locator
//
// Flags are accepted both before and after the subcommand.
func ParseFlags(args []string) (*Options, error) {
	var serverAddress NetAddress
	var database string
	opts := &Options{overrides: &overlay{}}

	fs := flag.NewFlagSet("womscp-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&database, "d", "", "Database locator")
	fs.StringVar(&opts.ConfigPath, "c", "", "TOML config file path")
	fs.StringVar(&opts.ConfigPath, "config", "", "TOML config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	if rest := fs.Args(); len(rest) > 0 {
		if rest[0] != CommandInit {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, rest[0])
		}
		opts.Command = CommandInit

		if err := fs.Parse(rest[1:]); err != nil {
			return nil, fmt.Errorf("error parsing flags: %w", err)
		}
		if extra := fs.Args(); len(extra) > 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, extra[0])
		}
	}

	if addr := serverAddress.String(); addr != "" {
		opts.overrides.Address = &addr
	}
	if database != "" {
		opts.overrides.Database = &database
	}

	return opts, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number is an integer in range 1-65535")
	}

	if host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
