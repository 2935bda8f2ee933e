package main

import "github.com/sutaburosu/fledlint/cmd"

func main() {
	cmd.Execute()
}
