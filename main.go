package main

import "github.com/pydist/pydist/cmd"

func main() {
	cmd.Execute()
}
