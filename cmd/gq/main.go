package main

import "gritquest/cmd/gq/root"

func main() {
	root.Execute()
}
