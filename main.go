package main

import (
	"github.com/adikso/dwarfdecl/cmd"
)

func main() {
	cmd.Execute()
}
