package main

import (
	"github.com/sasakorman/taxrunner/internal/cli"
)

func main() {
	cli.Execute()
}
