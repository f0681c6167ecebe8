package main

import (
	"os"

	"github.com/complyhub/complyhub/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
