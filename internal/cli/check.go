package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xonecas/enclose/internal/filesearch"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [PATH...]",
		Short: "Dry-run the parser over every supported file under PATH",
		Long: `Parse every Python and Go file under the given paths (default ".")
without searching it, and report the files that fail to parse. Paths
ignored by the .gitignore of the walked directory or any directory below
it are skipped. Empty files count as valid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runCheck(cmd, root, args)
		},
	}
}

type checkResult struct {
	path string
	err  error
}

func runCheck(cmd *cobra.Command, root *rootOptions, paths []string) error {
	ctx := cmd.Context()

	var files []string
	for _, p := range paths {
		found, err := filesearch.Walk(ctx, p, filesearch.Options{
			Match:       supported,
			MaxFileSize: root.cfg.Parser.MaxFileSize,
		})
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	sort.Strings(files)

	results := make([]checkResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			results[i] = checkResult{path: path, err: checkFile(gctx, root, path)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r := newRenderer(root.cfg.Output)
	out := cmd.OutOrStdout()
	invalid := 0
	for _, res := range results {
		if res.err != nil {
			invalid++
		}
		fmt.Fprintln(out, r.checkLine(res.path, res.err))
	}
	log.Debug().Int("files", len(files)).Int("invalid", invalid).Msg("check finished")

	if invalid > 0 {
		return fmt.Errorf("%d of %d files failed to parse", invalid, len(files))
	}
	fmt.Fprintf(out, "checked %d files\n", len(files))
	return nil
}

func checkFile(ctx context.Context, root *rootOptions, path string) error {
	adapter, err := adapterFor(path, root.parserOptions(root.cfg.Policy())...)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// An empty module, such as a bare __init__.py, is valid source.
	if len(src) == 0 {
		return nil
	}
	return adapter.Validate(ctx, string(src))
}
