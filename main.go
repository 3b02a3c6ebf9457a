package main

import "github.com/zinc-sig/gradeghost/cmd"

func main() {
	cmd.Execute()
}
