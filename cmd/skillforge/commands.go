// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/skillforge/skillforge/cmd/skillforge/cli"
	"github.com/skillforge/skillforge/lib/buildcache"
	"github.com/skillforge/skillforge/lib/config"
	"github.com/skillforge/skillforge/lib/skillpack"
	"github.com/skillforge/skillforge/lib/skillstore"
)

// version is the CLI release version, stamped at build time.
var version = "0.2.0"

// app carries flag state shared across the command tree. Config is
// loaded lazily so that commands which never touch the store (help,
// version) work without a usable filesystem layout.
type app struct {
	configPath string
	verbose    bool
}

// commonFlags returns a FlagSet pre-populated with the flags every
// store-touching command accepts.
func (a *app) commonFlags(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&a.configPath, "config", "", "config file (default: $SKILLFORGE_CONFIG, then built-in defaults)")
	flagSet.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	return flagSet
}

func (a *app) logger() *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(a.configPath)
}

func (a *app) openStore() (*skillstore.Store, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	options := []skillstore.Option{skillstore.WithLogger(a.logger())}
	if cfg.Kind != "" {
		options = append(options, skillstore.WithKind(cfg.Kind))
	}
	if cfg.GeneratorVersion != "" {
		options = append(options, skillstore.WithGeneratorVersion(cfg.GeneratorVersion))
	}
	return skillstore.Open(cfg.Paths.Store, options...)
}

func (a *app) openCache() (*buildcache.Cache, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return buildcache.Open(cfg.Paths.Cache)
}

func (a *app) listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "list stored skills",
		Usage:   "skillforge list [flags]",
		Flags:   func() *pflag.FlagSet { return a.commonFlags("list") },
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("list takes no arguments")
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			summaries, err := store.List()
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("no skills stored")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSERVER\tTOOLS\tGENERATED")
			for _, summary := range summaries {
				fmt.Fprintf(tw, "%s\t%s %s\t%d\t%s\n",
					summary.Name,
					summary.Server.Name, summary.Server.Version,
					summary.ToolCount,
					summary.GeneratedAt.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		},
	}
}

func (a *app) verifyCommand() *cli.Command {
	return &cli.Command{
		Name:        "verify",
		Summary:     "verify a stored skill's integrity",
		Usage:       "skillforge verify <name> [flags]",
		Description: "verify loads a stored skill, checking the module digest and every\ngenerated file against the recorded checksums.",
		Flags:       func() *pflag.FlagSet { return a.commonFlags("verify") },
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("verify takes exactly one skill name")
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			bundle, err := store.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: ok\n", args[0])
			fmt.Printf("  module:    %s (%d bytes)\n", bundle.Metadata.Checksums.Module, len(bundle.Module))
			fmt.Printf("  generated: %d files\n", bundle.Files.Len())
			fmt.Printf("  tools:     %d\n", len(bundle.Metadata.Tools))
			return nil
		},
	}
}

func (a *app) removeCommand() *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Summary: "remove a stored skill",
		Usage:   "skillforge remove <name> [flags]",
		Flags:   func() *pflag.FlagSet { return a.commonFlags("remove") },
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("remove takes exactly one skill name")
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			return store.Remove(args[0])
		},
	}
}

func (a *app) packCommand() *cli.Command {
	var output string
	var compressionName string
	return &cli.Command{
		Name:        "pack",
		Summary:     "pack a stored skill into a single archive file",
		Usage:       "skillforge pack <name> --output <file> [flags]",
		Description: "pack loads a stored skill (verifying it in the process) and writes\nit as a single portable archive file.",
		Flags: func() *pflag.FlagSet {
			flagSet := a.commonFlags("pack")
			flagSet.StringVarP(&output, "output", "o", "", "archive file to write (required)")
			flagSet.StringVar(&compressionName, "compression", "zstd", "payload compression: none, lz4, or zstd")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("pack takes exactly one skill name")
			}
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			compression, err := skillpack.ParseCompressionTag(compressionName)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			bundle, err := store.Load(args[0])
			if err != nil {
				return err
			}
			if err := skillpack.PackFile(bundle, output, compression); err != nil {
				return err
			}
			fmt.Printf("packed %s to %s\n", args[0], output)
			return nil
		},
	}
}

func (a *app) unpackCommand() *cli.Command {
	var name string
	return &cli.Command{
		Name:        "unpack",
		Summary:     "restore a skill archive into the store",
		Usage:       "skillforge unpack <file> [--name <name>] [flags]",
		Description: "unpack reads a skill archive, verifies its contents, and saves the\nbundle into the store. The store name defaults to the server name\nrecorded in the archive.",
		Flags: func() *pflag.FlagSet {
			flagSet := a.commonFlags("unpack")
			flagSet.StringVar(&name, "name", "", "store name for the restored skill (default: archive's server name)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("unpack takes exactly one archive file")
			}
			bundle, err := skillpack.UnpackFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = bundle.Metadata.Server.Name
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			metadata, err := store.Save(name, bundle.Files, bundle.Module, bundle.Metadata.Server, bundle.Metadata.Tools)
			if err != nil {
				return err
			}
			fmt.Printf("restored %s (%d files, %d tools)\n", name, bundle.Files.Len(), len(metadata.Tools))
			return nil
		},
	}
}

func (a *app) cacheCommand() *cli.Command {
	return &cli.Command{
		Name:    "cache",
		Summary: "inspect and clear the build cache",
		Subcommands: []*cli.Command{
			{
				Name:    "stats",
				Summary: "show build cache contents and size",
				Usage:   "skillforge cache stats [flags]",
				Flags:   func() *pflag.FlagSet { return a.commonFlags("cache stats") },
				Run: func(args []string) error {
					if len(args) != 0 {
						return fmt.Errorf("cache stats takes no arguments")
					}
					cache, err := a.openCache()
					if err != nil {
						return err
					}
					stats, err := cache.Stats()
					if err != nil {
						return err
					}
					fmt.Printf("modules:   %d\n", stats.ModuleCount)
					fmt.Printf("generated: %d\n", stats.GeneratedCount)
					fmt.Printf("metadata:  %d\n", stats.MetadataCount)
					fmt.Printf("total:     %d bytes\n", stats.TotalBytes)
					return nil
				},
			},
			{
				Name:        "clear",
				Summary:     "clear cache entries",
				Usage:       "skillforge cache clear [key] [flags]",
				Description: "clear removes the cache entries for one key, or the entire cache\nwhen no key is given.",
				Flags:       func() *pflag.FlagSet { return a.commonFlags("cache clear") },
				Run: func(args []string) error {
					cache, err := a.openCache()
					if err != nil {
						return err
					}
					switch len(args) {
					case 0:
						return cache.ClearAll()
					case 1:
						return cache.ClearEntity(args[0])
					default:
						return fmt.Errorf("cache clear takes at most one key")
					}
				},
			},
		},
	}
}

func (a *app) versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "print version information",
		Run: func(args []string) error {
			fmt.Printf("skillforge %s\n", version)
			return nil
		},
	}
}
