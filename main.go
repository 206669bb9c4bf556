package main

import (
	"os"

	"github.com/rmorales/opotutor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
