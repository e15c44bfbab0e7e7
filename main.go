package main

import (
	"github.com/ethsol/svfs/cmd/svfs"
)

func main() {
	svfs.Execute()
}
