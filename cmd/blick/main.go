package main

import "github.com/owzim/blick/internal/cli"

func main() {
	cli.Execute()
}
