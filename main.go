package main

import "github.com/ydrojd/assembler/cmd"

func main() {
	cmd.Execute()
}
