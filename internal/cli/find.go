package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xonecas/enclose/internal/treesitter"
)

type findOptions struct {
	jsonOut   bool
	innermost bool
	tagged    bool
	noSnippet bool
}

func newFindCmd(root *rootOptions) *cobra.Command {
	opts := &findOptions{}
	cmd := &cobra.Command{
		Use:   "find FILE START [END]",
		Short: "Report the construct enclosing lines START..END of FILE",
		Long: `Report the function, class or async function whose span covers the
requested 1-based inclusive line range. By default the first containing
node in source order is reported (the outermost); --innermost reports the
tightest enclosing definition instead.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, root, opts, args)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.jsonOut, "json", false, "print the context as JSON")
	f.BoolVar(&opts.innermost, "innermost", false, "report the tightest enclosing definition")
	f.BoolVar(&opts.tagged, "tag", false, "prefix snippet lines with content hashes")
	f.BoolVar(&opts.noSnippet, "no-snippet", false, "print only the context header")
	return cmd
}

func runFind(cmd *cobra.Command, root *rootOptions, opts *findOptions, args []string) error {
	path := args[0]
	start, err := parseLine(args[1])
	if err != nil {
		return err
	}
	end := start
	if len(args) == 3 {
		if end, err = parseLine(args[2]); err != nil {
			return err
		}
	}

	policy := root.cfg.Policy()
	if opts.innermost {
		policy = treesitter.Innermost
	}
	adapter, err := adapterFor(path, root.parserOptions(policy)...)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	log.Debug().
		Str("file", path).
		Str("language", adapter.Language()).
		Str("policy", policy.String()).
		Int("line_start", start).
		Int("line_end", end).
		Msg("find enclosing context")

	found, err := adapter.Find(cmd.Context(), string(src), start, end)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	}
	if found == nil {
		fmt.Fprintf(out, "no enclosing context for lines %d-%d\n", start, end)
		return nil
	}

	r := newRenderer(root.cfg.Output)
	if opts.tagged {
		r.tagged = true
	}
	fmt.Fprintln(out, r.contextHeader(found))
	if !opts.noSnippet {
		if snip := r.snippet(path, string(src), found); snip != "" {
			fmt.Fprintln(out, snip)
		}
	}
	return nil
}

func parseLine(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid line number %q", s)
	}
	return n, nil
}
