package main

import "pycompat/internal/cli"

func main() {
	cli.Execute()
}
