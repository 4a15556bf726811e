package main

import (
	"github.com/coursecast/coursecast/adapter/cli"
)

func main() {
	cli.Execute()
}
