// Command mlh-scrape prints newly-announced Canadian hackathons as JSON.
package main

import "github.com/maplehacks/mlh-scrape/internal/cli"

func main() {
	cli.Execute()
}
