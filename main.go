package main

import (
	"os"

	"github.com/rami3l/loxvm/cmd"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := cmd.App().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(cmd.ExitCode(err))
	}
}
