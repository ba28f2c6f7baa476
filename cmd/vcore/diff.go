package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vcore/internal/treefile"
	"github.com/vango-dev/vcore/pkg/host/memhost"
)

func diffCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show the host mutations between two tree files",
		Long: `Mount the old tree, render the new tree into the same mount point and
print the host mutations the second pass made.

Components declared in both files keep their identity, so unchanged parts of
the tree produce no mutations.

Examples:
  vcore diff v1.yaml v2.yaml
  vcore diff --json v1.yaml v2.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd.OutOrStdout(), flags, args[0], args[1], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print mutations as JSON")

	return cmd
}

func runDiff(ctx context.Context, w io.Writer, flags *globalFlags, oldPath, newPath string, asJSON bool) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	prev, err := treefile.Load(oldPath)
	if err != nil {
		return err
	}
	next, err := treefile.Load(newPath)
	if err != nil {
		return err
	}
	changed := next.Inherit(prev)

	eng, host, err := mount(ctx, cfg, prev)
	if err != nil {
		return err
	}
	host.ResetMutations()
	if len(changed) > 0 {
		slog.Debug("component templates changed", "components", changed)
		eng.InvalidateAll()
	}
	renderErr := eng.RenderToTree(ctx, next.Tree(), host.Body())

	mutations := host.Mutations()
	if mutations == nil {
		mutations = []memhost.Mutation{}
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(mutations); err != nil {
			return err
		}
		return renderErr
	}

	for _, m := range mutations {
		fmt.Fprintln(w, m)
	}
	fmt.Fprintf(w, "%d mutations\n", len(mutations))
	return renderErr
}
