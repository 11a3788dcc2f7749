package main

import "github.com/mcoot/battingstats/internal/cli"

func main() {
	cli.Execute()
}
