package main

import "kvload/cmd"

func main() {
	cmd.Execute()
}
