package main

import (
	"fmt"

	"github.com/commonsos/commons/internal/formdoc"
	"github.com/commonsos/commons/internal/report"
	"github.com/spf13/cobra"
)

var initFlags struct {
	out   string
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a session document holding the wizard's defaults",
	Long: `Create a session document with every field at its default value.

Without --out the document is printed, so it can be piped or edited by hand
and later passed to 'commons wizard --state'.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initFlags.out, "out", "o", "", "Write the document to this path")
	initCmd.Flags().BoolVarP(&initFlags.force, "force", "f", false, "Overwrite an existing document")
}

func runInit(cmd *cobra.Command, args []string) error {
	d, err := loadDescriptor()
	if err != nil {
		return err
	}
	e, err := d.NewEngine()
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}
	doc := formdoc.Capture(e, d.Name)

	if initFlags.out == "" {
		data, err := formdoc.Marshal(doc)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), report.HighlightYAML(string(data)))
		return nil
	}

	if !initFlags.force && formdoc.Exists(docFS, initFlags.out) {
		return fmt.Errorf("document already exists at %s\n\nUse --force to overwrite", initFlags.out)
	}
	s := &session{desc: d, engine: e}
	if err := s.save(initFlags.out); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Document written to: %s\n", initFlags.out)
	return nil
}
