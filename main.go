package main

import "github.com/anonion0/n3map/cmd"

func main() {
	cmd.Execute()
}
