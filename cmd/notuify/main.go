// Package main provides the CLI entrypoint for notuify.
package main

func main() {
	Execute()
}
