package main

import (
	"os"

	"github.com/mna/mainer"
)

func main() {
	c := &Cmd{}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
