package main

import "streamhub/cmd/cli/command"

func main() {
	command.Execute()
}
