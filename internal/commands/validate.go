package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/collectivites/m57/internal/report"
	"github.com/collectivites/m57/internal/validate"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <report.json>...",
		Short: "Re-check the accounting identities of stored reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open()
			if err != nil {
				return err
			}
			defer w.close()

			out := cmd.OutOrStdout()
			var errs []error
			for _, path := range args {
				doc, err := report.Read(path)
				if err != nil {
					return err
				}
				if !doc.Available {
					fmt.Fprintf(out, "%s: aggregates unavailable, nothing to check\n", path)
					continue
				}
				ds := validate.Check(doc.Tree(), w.tolerance)
				if len(ds) == 0 {
					fmt.Fprintf(out, "%s: %d identities hold\n", path, len(validate.Identities))
					continue
				}
				for _, d := range ds {
					fmt.Fprintf(out, "%s: %v\n", path, d)
					errs = append(errs, fmt.Errorf("%s: %w", path, d))
				}
			}
			return errors.Join(errs...)
		},
	}
}
