package main

import "github.com/soamn/aterna/cmd"

func main() {
	cmd.Execute()
}
