package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	authsvc "github.com/olegbarkov/amora/internal/services/auth"
)

// Prints a bcrypt hash for bootstrapping admin accounts by hand.
func main() {
	password := flag.String("password", "", "plain password")
	flag.Parse()

	if strings.TrimSpace(*password) == "" {
		log.Fatal("use -password to pass plain password")
	}

	hash, err := authsvc.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	fmt.Println(hash)
}
