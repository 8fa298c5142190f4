package main

import "github.com/maxviazov/lexico-users/internal/cli"

func main() {
	cli.Execute()
}
