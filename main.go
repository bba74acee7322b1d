package main

import (
	"spoty/cmd"
)

func main() {
	cmd.Execute()
}
