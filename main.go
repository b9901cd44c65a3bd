package main

import "anime-sync/cmd"

func main() {
	cmd.Execute()
}
