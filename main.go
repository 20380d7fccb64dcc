package main

import "loginsight/cmd"

func main() {
	cmd.Execute()
}
