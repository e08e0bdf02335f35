package main

import (
	"fmt"
	"os"
	"satori/checking"
	"satori/common"
	"satori/lib/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: satori <config.yaml>")
		os.Exit(2)
	}
	ts := common.InitTestingSystem(os.Args[1])

	if ts.Config.Checking != nil {
		if _, err := checking.SetupChecking(ts); err != nil {
			logger.Panic("Can not set up checking, error: %v", err)
		}
	} else {
		logger.Info("Checking is not configured")
	}

	ts.Run()
}
