package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/owzim/blick/internal/ledger"
	"github.com/owzim/blick/internal/storage"
)

// newCheckCmd creates the `check` command.
// Usage: blick check [--strict] [--prune]
func newCheckCmd(g *globalFlags) *cobra.Command {
	var strict, prune bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check generated image variants against their sources",
		Long: `Validates every variant recorded in .blick.lock: the variant file must
exist and be unchanged, and its source image must exist with the
modification time it had when the variant was generated. Useful in CI/CD
pipelines.

With --strict, the command exits with a non-zero code if any variant is
missing, stale, orphaned or failed. With --prune, orphaned and missing
variants are deleted and dropped from the ledger.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(g)
			if err != nil {
				return err
			}
			defer s.close()
			return runCheck(cmd.OutOrStdout(), s.fs, s.ledgerPath, strict, prune)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with error code if any variant is not ok")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete orphaned and missing variants from disk and ledger")

	return cmd
}

var statusColors = map[CheckStatus]*color.Color{
	CheckOK:       color.New(color.FgGreen),
	CheckMissing:  color.New(color.FgRed),
	CheckStale:    color.New(color.FgYellow),
	CheckOrphaned: color.New(color.FgYellow),
	CheckFailed:   color.New(color.FgRed, color.Bold),
}

// runCheck is the testable core of the check command.
func runCheck(out io.Writer, fs storage.FileSystem, ledgerPath string, strict, prune bool) error {
	l, err := ledger.Load(fs, ledgerPath)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	if len(l.Entries) == 0 {
		fmt.Fprintln(out, "No variants recorded in .blick.lock, nothing to check.")
		return nil
	}

	results := CheckVariants(l, fs)
	fmt.Fprintf(out, "Checking %d variant(s)...\n\n", len(results))

	var issues, pruned int
	for _, r := range results {
		status := statusColors[r.Status].Sprint(r.Status)
		fmt.Fprintf(out, "  %-8s %s (from %s)\n", status, r.Entry.Variant, r.Entry.Source)
		if r.Status == CheckOK {
			continue
		}
		issues++

		if prune && (r.Status == CheckOrphaned || r.Status == CheckMissing) {
			if err := fs.RemoveAll(r.Entry.Variant); err != nil {
				return fmt.Errorf("deleting %s: %w", r.Entry.Variant, err)
			}
			l.Remove(r.Entry.Variant)
			pruned++
		}
	}

	if pruned > 0 {
		if err := l.Save(fs, ledgerPath); err != nil {
			return fmt.Errorf("saving ledger: %w", err)
		}
		fmt.Fprintf(out, "\nPruned %d variant(s).\n", pruned)
		issues -= pruned
	}

	fmt.Fprintln(out)
	if issues > 0 {
		msg := fmt.Sprintf("Found %d issue(s). Regenerate with --force to fix.", issues)
		if strict {
			return fmt.Errorf("%s", msg)
		}
		fmt.Fprintln(out, msg)
	} else {
		fmt.Fprintln(out, "All variants are up to date.")
	}
	return nil
}
