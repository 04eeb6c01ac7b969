package main

import "uguulink/cmd"

func main() {
	cmd.Execute()
}
