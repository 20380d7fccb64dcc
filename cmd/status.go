package cmd

import (
	"fmt"

	"loginsight/pkg/config"
	"loginsight/server/model"
	"loginsight/server/repository"
	"loginsight/server/utils"

	tm "github.com/buger/goterm"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the event store status",
	Long: `Show the event store status.
This command shows how many logon events are stored and how far back
they reach.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupStorage(); err != nil {
			return err
		}

		total, err := repository.LogonEventDao.CountAll()
		if err != nil {
			return err
		}
		success, err := repository.LogonEventDao.CountByEventID(model.EventIDLogonSuccess)
		if err != nil {
			return err
		}
		failure, err := repository.LogonEventDao.CountByEventID(model.EventIDLogonFailure)
		if err != nil {
			return err
		}

		_, err = tm.Println(tm.Bold("Event store status"))
		cobra.CheckErr(err)
		_, err = tm.Println(fmt.Sprintf("Events stored:   %s (%s successful, %s failed)",
			humanize.Comma(total), humanize.Comma(success), humanize.Comma(failure)))
		cobra.CheckErr(err)

		if oldest, err := repository.LogonEventDao.OldestLogonTime(); err == nil && !oldest.IsZero() {
			_, err = tm.Println(fmt.Sprintf("Oldest event:    %s (%s)", oldest.Format(DateFormat), humanize.Time(oldest)))
			cobra.CheckErr(err)
		}

		_, err = tm.Println(fmt.Sprintf("Database:        %s", config.GlobalCfg.DB))
		cobra.CheckErr(err)
		if config.GlobalCfg.DB == "sqlite" {
			if size, err := utils.FileSize(config.GlobalCfg.Sqlite.Path); err == nil {
				_, err = tm.Println(fmt.Sprintf("Store size:      %s", humanize.Bytes(uint64(size))))
				cobra.CheckErr(err)
			}
		}
		_, err = tm.Println(fmt.Sprintf("Retention:       %d days", config.GlobalCfg.Retention.Days))
		cobra.CheckErr(err)
		tm.Flush()
		return nil
	},
}
