package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"pricebook/internal/config"
	"pricebook/internal/container"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Printf("Warning: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		fmt.Printf("Error converting Excel to JSON: %v\n", err)
		os.Exit(1)
	}

	c, err := container.New(appConfig)
	if err != nil {
		fmt.Printf("Error converting Excel to JSON: %v\n", err)
		os.Exit(1)
	}

	outcome := c.Converter.Convert(context.Background(), c.Request())
	fmt.Println(outcome.Message)
	if !outcome.Success {
		os.Exit(1)
	}
}
