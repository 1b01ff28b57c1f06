package main

import "github.com/alexiusacademia/rccheck/cmd"

func main() {
	cmd.Execute()
}
