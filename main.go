package main

import "github.com/xvierd/current/cmd"

func main() {
	cmd.Execute()
}
