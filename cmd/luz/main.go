package main

import "github.com/luzyverdad/luz/internal/commands"

func main() {
	commands.Execute()
}
