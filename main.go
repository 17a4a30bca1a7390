package main

import "github.com/tanq16/ruantools/cmd"

func main() {
	cmd.Execute()
}
