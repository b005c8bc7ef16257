package main

import "github.com/tokenforge/tokenforge/cmd"

func main() {
	cmd.Execute()
}
