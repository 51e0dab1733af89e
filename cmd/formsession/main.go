// Command formsession runs schema-driven form sessions from the terminal or
// over HTTP.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("formsession: %v", err)
		os.Exit(1)
	}
}
