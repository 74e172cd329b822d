// Command rainwater estimates rooftop rainwater harvesting potential and
// manages the local session the estimate pages are gated behind.
package main

import "github.com/couchcryptid/rainwater-harvest-service/internal/cli"

func main() {
	cli.Execute()
}
