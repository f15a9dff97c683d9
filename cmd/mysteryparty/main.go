package main

import (
	"github.com/parlorgames/mysteryparty/internal/cli"
)

func main() {
	cli.Execute()
}
