package cmd

import (
	"context"
	"fmt"
	"os"

	"loginsight/server/service"

	tm "github.com/buger/goterm"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import logon events from a CSV file",
	Long: `Import logon events from a CSV file.
The file is expected to be an export from Event Viewer or a collection
script, with a header row naming at least the event id and time columns.
UTF-8 and UTF-16 files with or without a BOM are both accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		if err := setupStorage(); err != nil {
			return err
		}

		result, err := service.ImportSrv.ImportCSV(context.Background(), f)
		if err != nil {
			if _, err2 := tm.Println(tm.Color(err.Error(), tm.RED)); err2 != nil {
				return err2
			}
			tm.Flush()
			return err
		}

		_, err = tm.Println(tm.Color(fmt.Sprintf("Imported %d records, skipped %d.", result.Imported, result.Skipped), tm.GREEN))
		cobra.CheckErr(err)
		for i := range result.Warnings {
			_, err = tm.Println(tm.Color(result.Warnings[i], tm.YELLOW))
			cobra.CheckErr(err)
		}
		tm.Flush()
		return nil
	},
}
