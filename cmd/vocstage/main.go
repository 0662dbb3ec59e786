package main

import "vocstage/cmd/vocstage/cmd"

func main() {
	cmd.Execute()
}
