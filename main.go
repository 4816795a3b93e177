package main

import "github.com/sadopc/hobbytrack/internal/cli"

func main() {
	cli.Execute()
}
