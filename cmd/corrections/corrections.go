// Package corrections implements the corrections command.
package corrections

import (
	"fmt"

	"fjacquet/meat-stats/cmd/root"
	"fjacquet/meat-stats/internal/container"
	"fjacquet/meat-stats/internal/store"

	"github.com/spf13/cobra"
)

var fileName string

// Cmd represents the corrections command
var Cmd = &cobra.Command{
	Use:   "corrections",
	Short: "Export the corrections table in effect as YAML",
	Long: `Corrections writes the data patches the normalize step applies, either the
built-in list or the one loaded from normalize.corrections_file, so it can be
reviewed and edited.`,
	RunE: correctionsFunc,
}

func init() {
	Cmd.Flags().StringVarP(&fileName, "file", "f", store.DefaultCorrectionsFile, "Name of the YAML file to write")
}

func correctionsFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	path := root.OutputPath(fileName)
	if err := Run(c, path); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// Run saves the container's corrections table to path.
func Run(c *container.Container, path string) error {
	return store.New(c.GetLogger()).SaveCorrections(path, c.GetCorrections())
}
