package main

import (
	"os"

	"github.com/Attiv/vchangelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
