package main

import "github.com/alexiusacademia/goptslab/cmd"

func main() {
	cmd.Execute()
}
