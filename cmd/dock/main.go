package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/MrSnakeDoc/dock/internal/app"
	"github.com/MrSnakeDoc/dock/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print build information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ dock failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ dock stopped with error: %v", err)
	}
}
