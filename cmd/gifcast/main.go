package main

import "github.com/gifcast/gifcast/cmd/gifcast/commands"

func main() {
	commands.Execute()
}
