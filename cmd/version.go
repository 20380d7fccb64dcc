package cmd

import (
	"fmt"
	"runtime"

	"loginsight/pkg/global"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("loginsight %s %s/%s\n", global.Version, runtime.GOOS, runtime.GOARCH)
	},
}
