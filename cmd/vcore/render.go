package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/internal/treefile"
	"github.com/vango-dev/vcore/pkg/render"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		static bool
		pretty bool
		out    string
	)

	cmd := &cobra.Command{
		Use:   "render <tree>",
		Short: "Render a tree file to markup",
		Long: `Render a tree file and print the resulting markup.

By default the tree is mounted into an in-memory document with the
reconciling engine and the document markup is printed. With --static the
tree is rendered directly to text, which requires a tree without
components.

Examples:
  vcore render page.yaml
  vcore render --static --pretty page.yaml
  vcore render page.yaml -o index.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return runRender(cmd.Context(), w, flags, args[0], static, pretty)
		},
	}

	cmd.Flags().BoolVar(&static, "static", false, "Render to text without mounting")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output (requires --static)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")

	return cmd
}

func runRender(ctx context.Context, w io.Writer, flags *globalFlags, path string, static, pretty bool) error {
	if pretty && !static {
		return errors.New("E170").
			WithDetail("--pretty requires --static").
			WithSuggestion("Run vcore render --static --pretty " + path)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	doc, err := treefile.Load(path)
	if err != nil {
		return err
	}

	var markup string
	var renderErr error
	if static {
		rc := cfg.RendererConfig()
		rc.Pretty = rc.Pretty || pretty
		markup, renderErr = render.NewRenderer(rc).RenderToString(doc.Tree())
		if renderErr != nil {
			return renderErr
		}
	} else {
		_, host, err := mount(ctx, cfg, doc)
		markup = host.InnerHTML(host.Body())
		renderErr = err
	}

	if !strings.HasSuffix(markup, "\n") {
		markup += "\n"
	}
	if _, err := io.WriteString(w, markup); err != nil {
		return err
	}
	return renderErr
}
