package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/orchestrator"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/tui"
)

func loadCmd(a *app) *cobra.Command {
	f := &outputFlags{}
	var interactive bool
	cmd := &cobra.Command{
		Use:   "load <input>",
		Short: "Load a model and summarise its aspects",
		Long: "Load a model by URN, file path, URL or \"-\" for stdin and list its aspects.\n" +
			"With --interactive, pick an aspect and fill in its payload prompt by prompt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, err := a.load(ctx, args[0])
			if err != nil {
				return err
			}
			if !interactive {
				return summarize(cmd, model, a.cfg.Output.Locale)
			}

			aspect, err := a.pickAspect(cmd, model, f.aspect)
			if err != nil {
				return err
			}
			opts, err := f.options()
			if err != nil {
				return err
			}
			opts.Model = model
			opts.Locale = a.cfg.Output.Locale
			out, err := tui.New(tui.WithPromptDriver(a.promptDriver())).Render(ctx, aspect, opts)
			if err != nil {
				return err
			}
			return a.emit(ctx, f.write, aspect.Name+".json", out)
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose an aspect and build its payload interactively")
	return cmd
}

// pickAspect selects by name when given, otherwise prompts when the model
// has more than one root aspect.
func (a *app) pickAspect(cmd *cobra.Command, model *metamodel.AspectModel, name string) (*metamodel.Aspect, error) {
	if name != "" {
		return orchestrator.SelectAspect(model, name)
	}
	candidates := model.RootAspects()
	if len(candidates) == 0 {
		candidates = model.Aspects()
	}
	switch len(candidates) {
	case 0:
		return nil, orchestrator.ErrAspectNotFound
	case 1:
		return candidates[0], nil
	}

	options := make([]string, len(candidates))
	for i, aspect := range candidates {
		options[i] = aspect.Name
	}
	idx, err := a.promptDriver().Select(cmd.Context(), tui.SelectConfig{
		Message: "Aspect",
		Options: options,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(candidates) {
		return nil, fmt.Errorf("%w: invalid selection", orchestrator.ErrAspectNotFound)
	}
	return candidates[idx], nil
}

func summarize(cmd *cobra.Command, model *metamodel.AspectModel, locale string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ASPECT\tURN\tPROPERTIES\tOPERATIONS\tEVENTS")
	aspects := model.RootAspects()
	if len(aspects) == 0 {
		aspects = model.Aspects()
	}
	for _, aspect := range aspects {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			aspect.PreferredName(locale),
			aspect.URN,
			len(aspect.Properties),
			len(aspect.Operations),
			len(aspect.Events),
		)
	}
	return w.Flush()
}
