package main

import "github.com/josephlewis42/parsley/cmd"

func main() {
	cmd.Execute()
}
