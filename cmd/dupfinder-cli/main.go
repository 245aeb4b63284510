package main

import "dupfinder/cmd/dupfinder-cli/cmd"

func main() {
	cmd.Execute()
}
