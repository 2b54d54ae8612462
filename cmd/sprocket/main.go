// main is the entry point for the sprocket CLI.
package main

import (
	"fmt"
	"os"

	"github.com/bikepoint/sprocket/cmd"
)

func main() {
	err := cmd.Execute()
	cmd.Cleanup()
	if err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
