// Package main provides the entry point for the docscan CLI.
//
// docscan crawls the Python documentation and the proposal index and
// prints small reports about them.
//
// Usage:
//
//	docscan scan whats-new
//	docscan scan pep -o pretty
//
// See --help for all available options.
package main

func main() {
	Execute()
}
