package main

import "pindown/internal/cli"

func main() {
	cli.Execute()
}
