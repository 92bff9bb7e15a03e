// scalpctl inspects scalp bus traffic: it lists the command catalog of a
// project, decodes and encodes frames, exports the catalog manifest and
// replays capture logs.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/scalp/internal/catalog"
	"github.com/danmuck/scalp/internal/config"
	"github.com/danmuck/scalp/internal/logging"
	"github.com/danmuck/scalp/internal/protocol"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

var errUsage = errors.New("usage")

type globals struct {
	configPath string
	project    string
	groups     []string
	logLevel   string
	plain      bool

	cfg config.ProjectConfig
}

type env struct {
	globals
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	name    string
	summary string
	run     func(e *env, args []string) error
}

var commands = []command{
	{"list", "print the command catalog", runList},
	{"decode", "decode hex or binary frames", runDecode},
	{"encode", "build one frame and print it as hex", runEncode},
	{"manifest", "write or verify the catalog manifest", runManifest},
	{"capture", "print the records of a capture log", runCapture},
}

func main() {
	logging.ConfigureRuntime()
	e := &env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := run(e, os.Args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "scalpctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(e *env, args []string) error {
	fs := pflag.NewFlagSet("scalpctl", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.SetInterspersed(false)
	fs.StringVarP(&e.configPath, "config", "c", "", "project file (scalp.toml)")
	fs.StringVarP(&e.project, "project", "p", "", "project name: "+fmt.Sprint(catalog.ProjectNames()))
	fs.StringSliceVarP(&e.groups, "groups", "g", nil, "explicit group list, overrides the project")
	fs.StringVar(&e.logLevel, "log-level", "", "log level override")
	fs.BoolVar(&e.plain, "plain", false, "disable colours")
	fs.Usage = func() { usage(e.stderr, fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := resolveConfig(&e.globals)
	if err != nil {
		return err
	}
	e.cfg = cfg
	if e.logLevel != "" && !logging.SetLevel(e.logLevel) {
		return fmt.Errorf("unknown log level %q", e.logLevel)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(e.stderr, fs)
		return errUsage
	}
	for _, cmd := range commands {
		if cmd.name == rest[0] {
			log.Debug().Msgf("scalpctl.run command=%s args=%v", cmd.name, rest[1:])
			return cmd.run(e, rest[1:])
		}
	}
	usage(e.stderr, fs)
	return fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
}

func usage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: scalpctl [flags] <command> [command flags]\n\nCommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(w, "\nFlags:\n%s", fs.FlagUsages())
}

// resolveConfig layers the command line over the project file, or over the
// defaults when no file is given.
func resolveConfig(g *globals) (config.ProjectConfig, error) {
	cfg := config.DefaultProjectConfig()
	if g.configPath != "" {
		loaded, err := config.LoadProjectConfig(g.configPath)
		if err != nil {
			return config.ProjectConfig{}, err
		}
		cfg = loaded
		if !logging.SetLevel(cfg.LogLevel) {
			log.Warn().Msgf("scalpctl.resolveConfig ignored log_level=%q", cfg.LogLevel)
		}
	}
	if g.project != "" {
		cfg.Project = g.project
		cfg.Groups = nil
	}
	if len(g.groups) > 0 {
		cfg.Groups = g.groups
	}
	if err := config.ValidateProjectConfig(cfg); err != nil {
		return config.ProjectConfig{}, err
	}
	return cfg, nil
}

func (e *env) registry() (*protocol.Registry, error) {
	return e.cfg.Registry()
}
