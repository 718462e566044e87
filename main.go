package main

import "github.com/gaurav-prasanna/coursegrab/cmd"

func main() {
	cmd.Execute()
}
