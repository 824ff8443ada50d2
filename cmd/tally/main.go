package main

import "github.com/claudebuildsapps/points-sub001/cmd/tally/root"

func main() {
	root.Execute()
}
