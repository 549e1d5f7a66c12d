package main

import "github.com/ostier/recap/cmd"

func main() {
	cmd.Execute()
}
