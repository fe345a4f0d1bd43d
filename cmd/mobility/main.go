package main

import "github.com/harrowgate/mobility/cmd"

func main() {
	cmd.Execute()
}
