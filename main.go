package main

import "github.com/notargets/meshseq/cmd"

func main() {
	cmd.Execute()
}
