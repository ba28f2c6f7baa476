package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vcore/internal/publish"
	"github.com/vango-dev/vcore/internal/treefile"
	"github.com/vango-dev/vcore/pkg/render"
	"github.com/vango-dev/vcore/pkg/vdom"
)

// exportOptions override the export section of the config.
type exportOptions struct {
	bucket string
	prefix string
	key    string
	title  string
	dryRun bool
}

func exportCmd(flags *globalFlags) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export <tree>",
		Short: "Render a tree file and upload it to S3",
		Long: `Mount a tree file, wrap the markup in a standalone page and upload it to
the bucket configured under export in vcore.yaml. Credentials are read from
AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Examples:
  vcore export page.yaml
  vcore export page.yaml --bucket=site --key=about/index.html
  vcore export page.yaml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cmd.OutOrStdout(), flags, args[0], opts, nil)
		},
	}

	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "Destination bucket (default from config)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "Key prefix (default from config)")
	cmd.Flags().StringVar(&opts.key, "key", "", "Object key (default from config)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Page title (default: tree file name)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the page instead of uploading it")

	return cmd
}

// runExport renders path and publishes it. A nil client uses an S3 client
// built from the config.
func runExport(ctx context.Context, w io.Writer, flags *globalFlags, path string, opts *exportOptions, client publish.Client) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if opts.bucket != "" {
		cfg.Export.Bucket = opts.bucket
	}
	if opts.prefix != "" {
		cfg.Export.Prefix = opts.prefix
	}
	if opts.key != "" {
		cfg.Export.Key = opts.key
	}

	doc, err := treefile.Load(path)
	if err != nil {
		return err
	}
	_, host, err := mount(ctx, cfg, doc)
	if err != nil {
		return err
	}

	title := opts.title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	page := render.PageData{
		Title: title,
		Body:  vdom.Raw(host.InnerHTML(host.Body())),
	}

	if opts.dryRun {
		return render.NewRenderer(cfg.RendererConfig()).RenderPage(w, page)
	}

	var pub *publish.Publisher
	if client != nil {
		pub = publish.New(client, publish.Options{Bucket: cfg.Export.Bucket, Prefix: cfg.Export.Prefix})
	} else {
		pub, err = publish.FromConfig(cfg.Export, nil)
		if err != nil {
			return err
		}
	}

	res, err := pub.PublishPage(ctx, cfg.Export.Key, page, cfg.RendererConfig())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "published s3://%s/%s (%d bytes)\n", res.Bucket, res.Key, res.Size)
	return nil
}
