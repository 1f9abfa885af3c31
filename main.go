package main

import (
	"log"

	"github.com/akhmetov/cv-matcher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
