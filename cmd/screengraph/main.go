package main

import (
	"github.com/devicelab-dev/screengraph/pkg/cli"
)

func main() {
	cli.Execute()
}
