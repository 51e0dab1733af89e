package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formsession/pkg/renderers/text"
	"github.com/goliatone/go-formsession/pkg/renderers/tui"
	"github.com/goliatone/go-formsession/pkg/session"
)

// newPromptDriver is swapped in tests to script the terminal.
var newPromptDriver = func(out io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(out)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill forms interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd)
		},
	}
	cmd.Flags().String("form", "", "Initial form type (defaults to the first registered form)")
	cmd.Flags().Bool("reveal-passwords", false, "Show password values when listing entries")
	return cmd
}

func runSession(cmd *cobra.Command) error {
	reg, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	formType, err := initialFormType(cmd, reg)
	if err != nil {
		return err
	}

	engine, err := session.New(reg, session.WithFormType(formType))
	if err != nil {
		return err
	}
	reveal, _ := cmd.Flags().GetBool("reveal-passwords")
	runner, err := tui.New(engine,
		tui.WithPromptDriver(newPromptDriver(cmd.OutOrStdout())),
		tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
		tui.WithTextRenderer(text.New(text.WithPasswordMasking(!reveal))),
	)
	if err != nil {
		return err
	}

	err = runner.Run(cmd.Context())
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}
	return err
}
