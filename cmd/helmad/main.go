package main

import (
	"os"
)

// main is the entry point of the application.
func main() {
	os.Exit(Execute(os.Args[1:]))
}
