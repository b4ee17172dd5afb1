package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gsp/internal/diagfmt"
	"gsp/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] template.gsp",
	Short: "Print the fragment stream of a template",
	Long:  `Tokenize splits a template into host code, literal, expression and function fragments`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) (err error) {
	filePath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	cleanup, err := setupObservability(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err) }()

	result, err := driver.Tokenize(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Фрагменты до ошибки всё равно печатаем
	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatFragmentsJSON(out, result.Fragments)
	} else {
		err = diagfmt.FormatFragmentsPretty(out, result.Fragments, result.FileSet)
	}
	if err != nil {
		return err
	}

	if result.Bag.Len() > 0 {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			Context:   2,
			ShowNotes: true,
		})
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}
