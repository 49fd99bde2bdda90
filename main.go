package main

import "github.com/chriserin/gherkinast/cmd"

func main() {
	cmd.Execute()
}
