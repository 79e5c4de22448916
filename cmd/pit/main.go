package main

import (
	"github.com/battlesnakeio/pit/cmd/pit/commands"
)

func main() {
	commands.Execute()
}
