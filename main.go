package main

import "azup/cmd"

func main() {
	cmd.Execute()
}
