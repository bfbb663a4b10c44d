// Package main provides the entry point for the pagelang CLI.
package main

func main() {
	Execute()
}
