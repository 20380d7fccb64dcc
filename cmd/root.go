package cmd

import (
	"os"

	"loginsight/pkg/config"
	"loginsight/pkg/log"
	"loginsight/server/api"
	"loginsight/server/env"
	"loginsight/server/repository"
	"loginsight/server/service"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:                   "loginsight <command>",
	Long:                  `Aggregate Windows logon events and report login activity per user.`,
	DisableFlagsInUseLine: true,
	SilenceUsage:          true,
	Example: `  # Report login activity for a user over the last 30 days
  $ loginsight report -u jdoe
  # Run the aggregation server
  $ loginsight serve
  # Import a CSV exported from Event Viewer
  $ loginsight import security-events.csv`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetupConfig(cfgFile); err != nil {
			return err
		}
		return log.SetupLogger(config.GlobalCfg.Log.Dir, config.GlobalCfg.Log.Level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "loginsight.yml", "config file path")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// setupStorage 打开数据库并装配仓库与服务, 需要访问数据的一次性子命令调用.
// serve子命令不走这里, 由api.SetupRoutes完成装配.
func setupStorage() error {
	db := env.SetupDB()
	repository.SetupRepository(db)
	service.SetupService()
	return api.InitDBData()
}
