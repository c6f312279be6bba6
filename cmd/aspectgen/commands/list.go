package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-aspectmodel/pkg/resolver"
)

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern]",
		Short: "List model files below the models root",
		Long:  "List model files below the models root whose relative path matches a doublestar pattern such as \"io.catenax.*/**/*.ttl\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			files, err := resolver.Models(cmd.Context(), a.cfg.Models.Dir, pattern)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}
