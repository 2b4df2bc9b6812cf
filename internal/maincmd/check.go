package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/typelang/lang/builtins"
	"github.com/mna/typelang/lang/checker"
	"github.com/mna/typelang/lang/diag"
	"github.com/mna/typelang/lang/scenarios"
)

// Check runs the scenarios named in args (or every scenario, if args is
// empty) through the checker and prints each one's principal binding's
// inferred type, or its diagnostics if checking failed.
func (c *Cmd) Check(ctx context.Context, stdio mainer.Stdio, args []string) error {
	all := scenarios.All()
	wanted := all
	if len(args) > 0 {
		wanted = nil
		byName := make(map[string]scenarios.Scenario, len(all))
		for _, s := range all {
			byName[s.Name] = s
		}
		for _, name := range args {
			s, ok := byName[name]
			if !ok {
				fmt.Fprintf(stdio.Stderr, "unknown scenario: %s\n", name)
				return fmt.Errorf("unknown scenario: %s", name)
			}
			wanted = append(wanted, s)
		}
	}

	var failed bool
	for _, s := range wanted {
		sink := diag.NewSink()
		chk := checker.New(s.Gen, builtins.Default(), sink, nil)
		env, err := checker.CheckProgram(chk, s.Decls)

		fmt.Fprintf(stdio.Stdout, "%s: %s\n", s.Name, s.Description)
		if err != nil || sink.HasFatal() {
			for _, r := range sink.Reports() {
				fmt.Fprintf(stdio.Stdout, "  %s\n", r)
			}
			if !s.WantFatal {
				failed = true
			}
			continue
		}
		if s.WantFatal {
			fmt.Fprintf(stdio.Stdout, "  expected a fatal diagnostic, got none\n")
			failed = true
			continue
		}
		if s.Principal.Text != "" {
			if t, ok := env.Lookup(s.Principal.Id); ok {
				fmt.Fprintf(stdio.Stdout, "  %s : %s\n", s.Principal.Text, t)
			}
		}
		for _, r := range sink.Reports() {
			fmt.Fprintf(stdio.Stdout, "  warning: %s\n", r)
		}
	}
	if failed {
		return fmt.Errorf("one or more scenarios did not match their expected outcome")
	}
	return nil
}

// List prints the name and description of every available scenario.
func (c *Cmd) List(ctx context.Context, stdio mainer.Stdio, args []string) error {
	for _, s := range scenarios.All() {
		fmt.Fprintf(stdio.Stdout, "%s\t%s\n", s.Name, s.Description)
	}
	return nil
}
