package main

import "sg-sweeper/cmd"

func main() {
	cmd.Execute()
}
