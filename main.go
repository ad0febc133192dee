package main

import "github.com/derickschaefer/bidash/cmd"

func main() {
	cmd.Execute()
}
