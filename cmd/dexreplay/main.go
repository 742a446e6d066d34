package main

import (
	"os"

	"github.com/paw-chain/dexchain/cmd/dexreplay/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
