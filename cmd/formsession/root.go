package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formsession/pkg/schema"
)

const (
	envSchemas = "FORMSESSION_SCHEMAS"
	envAddr    = "FORMSESSION_ADDR"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "formsession",
		Short:         "Schema-driven form sessions",
		Long:          "formsession fills, validates and records schema-driven forms from the terminal or a browser.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd)
		},
	}
	root.PersistentFlags().String("schemas", "", "Directory of schema documents (overrides "+envSchemas+" env var)")
	root.Flags().String("form", "", "Initial form type (defaults to the first registered form)")
	root.Flags().Bool("reveal-passwords", false, "Show password values when listing entries")

	root.AddCommand(newRunCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newSchemasCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// resolveSchemasDir returns the schema directory using --schemas (highest
// priority), then the FORMSESSION_SCHEMAS env var. Empty means the embedded
// defaults.
func resolveSchemasDir(cmd *cobra.Command) string {
	if flag := cmd.Flag("schemas"); flag != nil && strings.TrimSpace(flag.Value.String()) != "" {
		return strings.TrimSpace(flag.Value.String())
	}
	return strings.TrimSpace(os.Getenv(envSchemas))
}

func loadRegistry(cmd *cobra.Command) (*schema.Registry, error) {
	dir := resolveSchemasDir(cmd)
	if dir == "" {
		return schema.DefaultRegistry()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schemas directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schemas directory: %s is not a directory", dir)
	}
	reg, err := schema.LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	if reg.Empty() {
		return nil, fmt.Errorf("schemas directory %s holds no form schemas", dir)
	}
	return reg, nil
}

// initialFormType validates the --form flag, falling back to the first
// registered form type.
func initialFormType(cmd *cobra.Command, reg *schema.Registry) (string, error) {
	formType, _ := cmd.Flags().GetString("form")
	formType = strings.TrimSpace(formType)
	if formType == "" {
		types := reg.FormTypes()
		if len(types) == 0 {
			return "", nil
		}
		return types[0], nil
	}
	if !reg.Has(formType) {
		return "", fmt.Errorf("%w: %q (known: %s)", schema.ErrUnknownFormType, formType, strings.Join(reg.FormTypes(), ", "))
	}
	return formType, nil
}
