// ABOUTME: Entry point for the coffee-app CLI
// ABOUTME: Terminal client for the CoffeeBeam storefront and loyalty API

package main

import (
	"fmt"
	"os"

	"github.com/TagleD/coffee-app/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
