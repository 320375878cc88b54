package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List documents on the shelf",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := requireRegistry(); err != nil {
		return err
	}

	docs := registry.List()
	if len(docs) == 0 {
		cmd.Println("The shelf is empty. Add files with 'docshelf add <path>'.")
		return nil
	}

	p := paletteFor(cmd.OutOrStdout())

	rows := make([][]string, len(docs))
	for i := range docs {
		preview := "yes"
		if !docs[i].Rehydrated() && docs[i].Content == nil {
			preview = "no"
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			docs[i].ID,
			docs[i].Name,
			docs[i].Kind.Description(),
			humanize.Bytes(uint64(max(docs[i].SizeBytes, 0))),
			preview,
			p.state(docs[i].SummaryState),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.muted).
		Headers("#", "ID", "NAME", "KIND", "SIZE", "PREVIEW", "SUMMARY").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	cmd.Println(t.String())
	cmd.Printf("%d document(s)\n", len(docs))
	return nil
}
