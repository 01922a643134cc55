package main

import "github.com/chriserin/mfnf/cmd"

func main() {
	cmd.Execute()
}
