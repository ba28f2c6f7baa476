package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vcore/internal/treefile"
	"github.com/vango-dev/vcore/pkg/vdom"
)

func dumpCmd(flags *globalFlags) *cobra.Command {
	var vnodes bool

	cmd := &cobra.Command{
		Use:   "dump <tree>",
		Short: "Print the mounted host tree",
		Long: `Mount a tree file and print the resulting host tree, one node per line.
With --vnodes the virtual node tree is printed instead, before any component
is rendered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), cmd.OutOrStdout(), flags, args[0], vnodes)
		},
	}

	cmd.Flags().BoolVar(&vnodes, "vnodes", false, "Print the virtual node tree")

	return cmd
}

func runDump(ctx context.Context, w io.Writer, flags *globalFlags, path string, vnodes bool) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	doc, err := treefile.Load(path)
	if err != nil {
		return err
	}

	if vnodes {
		_, err := fmt.Fprint(w, vdom.Dump(doc.Tree()))
		return err
	}

	_, host, renderErr := mount(ctx, cfg, doc)
	if _, err := fmt.Fprint(w, host.Dump(host.Body())); err != nil {
		return err
	}
	return renderErr
}
