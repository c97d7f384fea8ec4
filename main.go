package main

import "github.com/khrees2412/hirepipe/cmd"

func main() {
	cmd.Execute()
}
