package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <input>...",
		Short: "Check that models load and are structurally valid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, input := range args {
				model, err := a.load(cmd.Context(), input)
				if err != nil {
					failed++
					reportInvalid(cmd, input, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d aspects)\n", input, len(model.Aspects()))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d models failed validation", failed, len(args))
			}
			return nil
		},
	}
}

func reportInvalid(cmd *cobra.Command, input string, err error) {
	var verrs metamodel.ValidationErrors
	if !errors.As(err, &verrs) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", input, err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d problems\n", input, len(verrs))
	for _, v := range verrs {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", v.Error())
	}
}
