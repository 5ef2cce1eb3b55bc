package main

import "github.com/emrgen/glossary/cmd"

func main() {
	cmd.Execute()
}
