package main

import "github.com/dwgrep/zwerg/cmd"

func main() {
	cmd.Execute()
}
