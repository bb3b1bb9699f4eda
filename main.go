package main

import (
	"os"

	"github.com/soapywu/pbxpatch/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
