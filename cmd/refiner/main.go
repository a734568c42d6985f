// Package main provides the entry point for the refiner CLI.
//
// refiner turns raw social media data exports into an anonymized relational
// record set plus a proof document that attests to the export's integrity
// without revealing its content.
//
// Usage:
//
//	refiner refine --input ./input --output ./output
//	refiner verify --export export.json --proof output/proof.json
//
// See --help for all available options.
package main

// main is the entry point for refiner.
func main() {
	Execute()
}
