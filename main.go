package main

import "consoleplus/cmd"

func main() {
	cmd.Execute()
}
