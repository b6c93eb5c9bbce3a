package main

import "github.com/clipilot/clipilot/cmd"

func main() {
	cmd.Execute()
}
