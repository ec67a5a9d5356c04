package main

import "campaign-sim/internal/cli"

func main() {
	cli.Execute()
}
