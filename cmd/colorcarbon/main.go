// Package main provides the entry point for the colorcarbon CLI.
//
// colorcarbon estimates a relative "digital carbon" score from the colors a
// website renders or the dominant colors of an image.
//
// Usage:
//
//	colorcarbon scan <url>...
//	colorcarbon image <file>...
//	colorcarbon compare <source>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
