package main

import "github.com/voxtalk/voxtalk/cmd"

func main() {
	cmd.Execute()
}
