package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ayushhealth/ayushbot/internal/render"
	"github.com/ayushhealth/ayushbot/internal/wizard"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Run the symptom checker as plain questions on stdin/stdout",
	Long: "Runs the same wizard as the TUI, one prompt per line. Useful over ssh,\n" +
		"in a dumb terminal, or with input piped from a file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		noAI, _ := cmd.Flags().GetBool("no-ai")
		d, err := buildWizardDeps(cmd, noAI)
		if err != nil {
			return err
		}
		defer d.Close()

		out := cmd.OutOrStdout()
		r := render.New(render.NewWriterSink(out), render.WithDelay(d.cfg.TypingDelay))
		defer r.Close()

		ctrl := wizard.New(d.client, wizard.WithObserver(wizard.Recording(d.store.EventRepo())))
		var opts []wizard.ConsoleOption
		if d.explainer != nil {
			opts = append(opts, wizard.WithExplainer(d.explainer))
		}

		// Ctrl+D ends the session and records an unfinished run as
		// abandoned; Ctrl+C kills the process outright.
		return wizard.NewConsole(ctrl, r, cmd.InOrStdin(), out, opts...).Run(cmd.Context())
	},
}

func init() {
	askCmd.Flags().Bool("no-ai", false, "Do not ask an LLM for insights")
}
