package main

import "github.com/agentic-research/wikicat/cmd"

func main() {
	cmd.Execute()
}
