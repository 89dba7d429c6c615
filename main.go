package main

import "liferayscan/cmd"

func main() {
	cmd.Execute()
}
