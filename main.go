package main

import "github.com/pitlane-dev/pitlane/cmd"

func main() {
	cmd.Execute()
}
