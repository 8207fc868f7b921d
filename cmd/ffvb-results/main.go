// Command ffvb-results reads the French Volleyball Federation's results pages.
package main

import "github.com/pfrederiksen/ffvb-results/internal/cli"

func main() {
	cli.Execute()
}
