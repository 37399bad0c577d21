// cmd_list.go - List Command
// Hauptfunktionen: newListCmd, ListHandler
package cmd

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/linyu92/sd-webui-segment-anything/format"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [filter]",
		Aliases: []string{"ls"},
		Short:   "List registered models and their download state",
		Args:    cobra.MaximumNArgs(1),
		RunE:    ListHandler,
	}
}

// ListHandler - Listet alle registrierten Modelle auf
func ListHandler(cmd *cobra.Command, args []string) error {
	client, err := initClient()
	if err != nil {
		return err
	}

	models, err := client.List(cmd.Context())
	if err != nil {
		return err
	}

	var data [][]string

	for _, m := range models.Models {
		if len(args) == 0 || strings.HasPrefix(strings.ToLower(m.Name), strings.ToLower(args[0])) {
			size := "-"
			modified := "Never"
			if m.Downloaded {
				size = format.HumanBytes(m.Size)
				modified = format.HumanTime(m.ModifiedAt, "Never")
			}

			data = append(data, []string{m.Name, m.Checkpoint, size, modified})
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"NAME", "CHECKPOINT", "SIZE", "DOWNLOADED"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}
