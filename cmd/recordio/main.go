package main

import "github.com/jmikh/recordio-sub002/internal/cli"

func main() {
	cli.Execute()
}
