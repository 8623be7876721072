package cmd

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/apigen/internal/output"
	"github.com/opmodel/apigen/internal/templates"
)

// NewTemplatesCmd creates the templates command.
func NewTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List built-in templates",
		Long: `List the built-in project templates, how many files each one writes
and the paths each optional feature contributes. Paths of a disabled feature
are left out of a new project.`,
		Args: cobra.NoArgs,
		RunE: runTemplates,
	}
}

func runTemplates(cmd *cobra.Command, args []string) error {
	table := output.NewTable("TEMPLATE", "DESCRIPTION", "FILES", "FEATURE", "PATHS")

	for _, tmpl := range templates.List() {
		fsys, err := templates.FS(tmpl.Name)
		if err != nil {
			return reportError(err)
		}
		m, err := templates.LoadManifest(fsys)
		if err != nil {
			return reportError(err)
		}
		files, err := templates.ListTemplateFiles(fsys, m)
		if err != nil {
			return reportError(err)
		}

		name := tmpl.Name
		if tmpl.Default {
			name += " (default)"
		}
		description := tmpl.Description
		count := strconv.Itoa(len(files))

		for _, feature := range m.FeatureNames() {
			paths := append([]string(nil), m.Features[feature]...)
			sort.Strings(paths)
			table.Row(name, description, count, feature, strings.Join(paths, ", "))
			name, description, count = "", "", ""
		}
		if len(m.Features) == 0 {
			table.Row(name, description, count, "", "")
		}
	}

	output.Println(table.String())
	return nil
}
