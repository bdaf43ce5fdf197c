package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"learnboard/internal/csvimport"
	"learnboard/internal/models"
	"learnboard/internal/store"
)

func newImportCommand() *cobra.Command {
	var sheetID int64

	cmd := &cobra.Command{
		Use:   "import --sheet ID FILE",
		Short: "Import sections, boxes and tasks from CSV into a practice sheet",
		Long: "Import reads CSV with the columns level, section_order, box_number, box_title,\n" +
			"task_order and task_text. Use - as FILE to read from standard input.\n" +
			"Rows are matched to existing rows, so running the same import twice changes nothing.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sheetID <= 0 {
				return errors.New("--sheet must be a positive sheet id")
			}

			input, closeInput, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeInput()

			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := csvimport.NewImporter(store.New(db)).Import(cmd.Context(), sheetID, input)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("sheet %d does not exist", sheetID)
			}
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			printSummary(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().Int64Var(&sheetID, "sheet", 0, "target practice sheet id")
	return cmd
}

func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, func() { f.Close() }, nil
}

func printSummary(w io.Writer, res *csvimport.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintln(w, green("Import complete."))
	fmt.Fprintf(w, "  Sections: %d created\n", res.SectionsCreated)
	fmt.Fprintf(w, "  Boxes:    %d created, %d updated\n", res.BoxesCreated, res.BoxesUpdated)
	fmt.Fprintf(w, "  Tasks:    %d created, %d updated\n", res.TasksCreated, res.TasksUpdated)
	if res.BoxesSkipped > 0 {
		fmt.Fprintln(w, yellow(fmt.Sprintf("  Skipped %d boxes numbered above %d", res.BoxesSkipped, models.MaxBoxesPerSection)))
	}
}
