package main

import "productivity-assistant/cmd/assistant/root"

func main() {
	root.Execute()
}
