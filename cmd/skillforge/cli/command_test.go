// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "skillforge",
		Subcommands: []*Command{
			{
				Name: "list",
				Run: func(args []string) error {
					called = "list"
					return nil
				},
			},
			{
				Name: "verify",
				Run: func(args []string) error {
					called = "verify"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"verify"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "verify" {
		t.Errorf("dispatched to %q, want %q", called, "verify")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "skillforge",
		Subcommands: []*Command{
			{
				Name: "cache",
				Subcommands: []*Command{
					{
						Name: "clear",
						Run: func(args []string) error {
							called = "cache clear"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"cache", "clear", "my-skill"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "cache clear" {
		t.Errorf("dispatched to %q, want %q", called, "cache clear")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "my-skill" {
		t.Errorf("args = %v, want [my-skill]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var output string

	command := &Command{
		Name: "pack",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pack", pflag.ContinueOnError)
			flagSet.StringVarP(&output, "output", "o", "", "output file")
			return flagSet
		},
		Run: func(args []string) error {
			return nil
		},
	}

	if err := command.Execute([]string{"--output", "skill.pack", "my-skill"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if output != "skill.pack" {
		t.Errorf("output flag = %q, want %q", output, "skill.pack")
	}
}

func TestCommand_Execute_UnknownSubcommand(t *testing.T) {
	root := &Command{
		Name: "skillforge",
		Subcommands: []*Command{
			{Name: "list", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute([]string{"lost"})
	if err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), `unknown command "lost"`) {
		t.Errorf("error = %q, want mention of unknown command", err)
	}
}

func TestCommand_Execute_UnknownFlag(t *testing.T) {
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("list", pflag.ContinueOnError)
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--bogus"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, want pointer to --help", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "skillforge",
		Subcommands: []*Command{
			{Name: "list", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute(nil)
	if err == nil {
		t.Fatal("expected error when no subcommand given")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want subcommand required", err)
	}
}

func TestCommand_PrintHelp_ListsSubcommands(t *testing.T) {
	root := &Command{
		Name:    "skillforge",
		Summary: "manage persisted skill bundles",
		Subcommands: []*Command{
			{Name: "list", Summary: "list stored skills"},
			{Name: "verify", Summary: "verify a stored skill"},
		},
	}

	var buf bytes.Buffer
	root.PrintHelp(&buf)

	help := buf.String()
	for _, want := range []string{"list", "verify", "list stored skills", "skillforge <command>"} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	command := &Command{
		Name:    "list",
		Summary: "list stored skills",
		Run: func(args []string) error {
			t.Fatal("Run should not be called for --help")
			return nil
		},
	}

	if err := command.Execute([]string{"--help"}); err != nil {
		t.Fatalf("Execute(--help) error: %v", err)
	}
}
