package main

import "github.com/benoctopus/track/cmd"

func main() {
	cmd.Execute()
}
