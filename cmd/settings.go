package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/inovacc/jbconsole/internal/cli"
	"github.com/inovacc/jbconsole/internal/form"
)

func addSetFlag(cmd *cobra.Command) {
	cmd.Flags().StringArray("set", nil, "Set a field without the interactive form (key=value, repeatable)")
}

// runSettings opens the settings modal for op. With --set pairs, or when
// stdin is not a terminal, the pairs are applied and submitted directly;
// otherwise the interactive form runs. It reports whether the form saved.
func runSettings(cmd *cobra.Command, a *app, title string, op form.Operation, schema *form.Schema) (bool, error) {
	modal := form.NewModal(a.formEnv(), a.logger)
	modal.Open(title, op, schema)

	sets, _ := cmd.Flags().GetStringArray("set")

	if len(sets) > 0 || !isInteractive() {
		if err := submitSettings(cmd, modal, sets); err != nil {
			return false, err
		}

		return true, nil
	}

	m, err := cli.NewSettingsModel(cmd.Context(), modal)
	if err != nil {
		return false, err
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}

	sm, ok := final.(*cli.SettingsModel)
	if !ok || sm.Canceled {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")

		return false, nil
	}

	return sm.Saved, nil
}

func submitSettings(cmd *cobra.Command, modal *form.Modal, sets []string) error {
	pairs, err := parseSetFlags(sets)
	if err != nil {
		return err
	}

	for _, p := range pairs {
		if err := modal.Update(p.key, p.value); err != nil {
			return err
		}
	}

	if err := modal.Submit(cmd.Context()); err != nil {
		return &alertError{alert: modal.Alert(), err: err}
	}

	return nil
}

// reportSaved prints msg after a saved form.
func reportSaved(cmd *cobra.Command, saved bool, msg string) {
	if saved {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), msg)
	}
}
