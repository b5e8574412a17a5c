package main

import (
	"os"

	"taskmk/cmd"
	"taskmk/internal/util"
)

func main() {
	if err := cmd.Execute(); err != nil {
		util.Fail("%v", err)
		os.Exit(cmd.ExitCode(err))
	}
}
