// scalpgen writes the C frame catalog (fr_cmdes.h / fr_cmdes.c) of a project
// and, on request, its manifest or a starter project file.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/scalp/internal/cgen"
	"github.com/danmuck/scalp/internal/config"
	"github.com/danmuck/scalp/internal/logging"
	"github.com/danmuck/scalp/internal/manifest"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

type options struct {
	configPath   string
	project      string
	header       string
	source       string
	withManifest bool
	template     string
	output       string
	force        bool
	validate     bool
}

func main() {
	logging.ConfigureRuntime()
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "scalpgen: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("scalpgen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configPath, "config", "c", "", "project file (scalp.toml)")
	fs.StringVarP(&opts.project, "project", "p", "", "project name, overrides the file")
	fs.StringVar(&opts.header, "header", "", "header output path")
	fs.StringVar(&opts.source, "source", "", "source output path")
	fs.BoolVar(&opts.withManifest, "manifest", false, "also write the catalog manifest")
	fs.StringVar(&opts.template, "template", "", "write a project file template of this kind (scalp|minut|mpu) and exit")
	fs.StringVarP(&opts.output, "output", "o", "scalp.toml", "template output path")
	fs.BoolVar(&opts.force, "force", false, "overwrite an existing template")
	fs.BoolVar(&opts.validate, "validate", false, "validate the project file and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return opts, nil
}

func run(args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.template != "" {
		if err := config.WriteTemplate(opts.output, opts.template, opts.force); err != nil {
			return err
		}
		log.Info().Msgf("scalpgen wrote template kind=%s path=%s", opts.template, opts.output)
		return nil
	}

	cfg := config.DefaultProjectConfig()
	if opts.configPath != "" {
		if cfg, err = config.LoadProjectConfig(opts.configPath); err != nil {
			return err
		}
		logging.SetLevel(cfg.LogLevel)
	}
	if opts.validate {
		if opts.configPath == "" {
			return errors.New("--validate needs --config")
		}
		log.Info().Msgf("scalpgen validated path=%s", opts.configPath)
		return nil
	}
	if opts.project != "" {
		cfg.Project = opts.project
		cfg.Groups = nil
	}
	if opts.header != "" {
		cfg.HeaderPath = opts.header
	}
	if opts.source != "" {
		cfg.SourcePath = opts.source
	}
	if err := config.ValidateProjectConfig(cfg); err != nil {
		return err
	}

	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	cat := reg.Catalog()
	if err := cgen.Generate(cat, cfg.HeaderPath, cfg.SourcePath); err != nil {
		return err
	}
	if opts.withManifest {
		f, err := manifest.ParseFormat(cfg.ManifestFormat)
		if err != nil {
			return err
		}
		if err := manifest.WriteFile(cfg.ManifestPath, cat, f); err != nil {
			return err
		}
	}
	log.Info().Msgf("scalpgen done groups=%v commands=%d", reg.Groups(), reg.Len())
	return nil
}
