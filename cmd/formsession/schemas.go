package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formsession/pkg/schema"
	"github.com/goliatone/go-formsession/pkg/schema/openapi"
)

func newSchemasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "Inspect, validate and import form schemas",
	}
	cmd.AddCommand(newSchemasListCmd())
	cmd.AddCommand(newSchemasValidateCmd())
	cmd.AddCommand(newSchemasOpenAPICmd())
	return cmd
}

func newSchemasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered form types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tTITLE\tFIELDS\tREQUIRED")
			for _, form := range reg.Schemas() {
				required := make([]string, 0, len(form.Fields))
				for _, field := range form.RequiredFields() {
					required = append(required, field.Name)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", form.Type, form.Title, len(form.Fields), strings.Join(required, ","))
			}
			return tw.Flush()
		},
	}
}

func newSchemasValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate schema documents against the bundled meta-schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				issues := schema.ValidateDocument(data, path)
				if len(issues) == 0 {
					fmt.Fprintf(out, "ok   %s\n", path)
					continue
				}
				failed++
				fmt.Fprintf(out, "FAIL %s\n", path)
				for _, issue := range issues {
					issue.Source = ""
					fmt.Fprintf(out, "     %s\n", issue)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed validation", failed, len(args))
			}
			return nil
		},
	}
}

func newSchemasOpenAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi <file>",
		Short: "Convert OpenAPI component schemas into a schema document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, _ := cmd.Flags().GetStringSlice("component")
			format, _ := cmd.Flags().GetString("format")
			validate, _ := cmd.Flags().GetBool("validate")

			forms, err := openapi.FromFile(cmd.Context(), args[0],
				openapi.WithComponents(components...),
				openapi.WithValidation(validate),
			)
			if err != nil {
				return err
			}
			if _, err := schema.NewRegistry(forms); err != nil {
				return err
			}
			data, err := schema.EncodeDocument(forms, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringSlice("component", nil, "Component schemas to convert (default: all object schemas)")
	cmd.Flags().String("format", "yaml", "Output format: yaml or json")
	cmd.Flags().Bool("validate", false, "Validate the OpenAPI document before converting")
	return cmd
}
