// The main package for the nirobo executable.
package main

import (
	"github.com/nirobo/nirobo-crawler/cmd"
)

func main() {
	cmd.Execute()
}
