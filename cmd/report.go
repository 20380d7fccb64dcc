package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"loginsight/pkg/constant"
	"loginsight/server/dto"
	"loginsight/server/service"

	"github.com/AlecAivazis/survey/v2"
	tm "github.com/buger/goterm"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const DateFormat = "2006-01-02 15:04:05"

type reportOptions struct {
	username string
	days     int
	export   string
}

var reportOpts = &reportOptions{}

var reportCmd = &cobra.Command{
	Use:   "report [flags]",
	Short: "Report login activity for a user",
	Long: `Report login activity for a user.
Shows per-source login counts and the latest login records inside the
lookback window. With no '--username' flag, it will ask for one.
With '--export' flag, the full detail list is written to a CSV file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportOpts.username == "" {
			prompt := &survey.Input{
				Message: "Which username do you want to report on?",
			}
			if err := survey.AskOne(prompt, &reportOpts.username); err != nil {
				return err
			}
		}
		if err := validateDays(reportOpts.days); err != nil {
			if _, err := tm.Println(tm.Color("The lookback window must be between 1 and 365 days.", tm.RED)); err != nil {
				return err
			}
			tm.Flush()
			return err
		}
		if err := setupStorage(); err != nil {
			return err
		}
		return runReport(reportOpts)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOpts.username, "username", "u", "", "username to report on")
	reportCmd.Flags().IntVarP(&reportOpts.days, "days", "d", constant.DefaultLookbackDays, "lookback window in days (1-365)")
	reportCmd.Flags().StringVarP(&reportOpts.export, "export", "o", "", "write the full detail list to a CSV file")
}

func validateDays(days int) error {
	if days < constant.MinLookbackDays || days > constant.MaxLookbackDays {
		return errors.New("lookback window out of range")
	}
	return nil
}

func runReport(opts *reportOptions) error {
	report, records, err := service.ReportSrv.BuildReport(context.Background(), opts.username, opts.days, constant.ConsoleDetailRows)
	if err != nil {
		if _, err2 := tm.Println(tm.Color(err.Error(), tm.RED)); err2 != nil {
			return err2
		}
		tm.Flush()
		return err
	}

	printReport(report, len(records))

	if opts.export != "" {
		if err := service.ExportRecordsCsv(opts.export, records); err != nil {
			if _, err2 := tm.Println(tm.Color("Failed to export the detail list: "+err.Error(), tm.RED)); err2 != nil {
				return err2
			}
			tm.Flush()
			return err
		}
		_, err = tm.Println(tm.Color(fmt.Sprintf("Exported %d records to %s.", len(records), opts.export), tm.GREEN))
		cobra.CheckErr(err)
		tm.Flush()
	}

	// 任一类事件查询失败时返回非零
	if len(report.FetchErrors) > 0 {
		for i := range report.FetchErrors {
			if _, err := tm.Println(tm.Color(report.FetchErrors[i], tm.RED)); err != nil {
				return err
			}
		}
		tm.Flush()
		return errors.New("some event queries failed, the report may be incomplete")
	}
	return nil
}

func printReport(report *dto.LoginReport, totalRecords int) {
	_, err := tm.Println(tm.Bold(fmt.Sprintf("Login activity for %s over the last %d days", report.Username, report.LookbackDays)))
	cobra.CheckErr(err)
	_, err = tm.Println(fmt.Sprintf("Events processed: %d, matched: %d, malformed: %d, without source: %d",
		report.Stats.Processed, report.Stats.Matched, report.Stats.Malformed, report.Stats.NoSource))
	cobra.CheckErr(err)
	tm.Flush()

	if totalRecords == 0 {
		_, err := tm.Println(tm.Color("No login records found for this user.", tm.YELLOW))
		cobra.CheckErr(err)
		tm.Flush()
		return
	}

	summaryTable := tablewriter.NewWriter(os.Stdout)
	summaryTable.SetHeader([]string{"Source", "Total", "Success", "Failure", "Last Seen"})
	summaryTable.SetAlignment(tablewriter.ALIGN_LEFT)
	summaryTable.AppendBulk(summaryRows(report.Summaries))
	summaryTable.Render()

	_, err = tm.Println(tm.Bold(fmt.Sprintf("Latest records (showing %d of %d)", len(report.Details), totalRecords)))
	cobra.CheckErr(err)
	tm.Flush()

	detailTable := tablewriter.NewWriter(os.Stdout)
	detailTable.SetHeader([]string{"Time", "Source", "Outcome", "Logon Type", "Workstation", "Process"})
	detailTable.SetAlignment(tablewriter.ALIGN_LEFT)
	detailTable.AppendBulk(detailRows(report.Details))
	detailTable.Render()
}

func summaryRows(summaries []dto.SourceSummary) [][]string {
	var data [][]string
	for i := range summaries {
		data = append(data, []string{
			summaries[i].SourceId,
			strconv.Itoa(summaries[i].Total),
			strconv.Itoa(summaries[i].Success),
			strconv.Itoa(summaries[i].Failure),
			humanize.Time(summaries[i].LastSeen.Time),
		})
	}
	return data
}

func detailRows(records []dto.LoginRecord) [][]string {
	var data [][]string
	for i := range records {
		outcome := string(records[i].Outcome)
		if records[i].Outcome == dto.OutcomeFailure {
			outcome = tm.Color(outcome, tm.RED)
		} else {
			outcome = tm.Color(outcome, tm.GREEN)
		}
		data = append(data, []string{
			records[i].LoginTime.Format(DateFormat),
			records[i].SourceId,
			outcome,
			records[i].LogonType,
			records[i].Workstation,
			records[i].ProcessName,
		})
	}
	return data
}
