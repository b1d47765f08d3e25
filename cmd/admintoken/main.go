// Command admintoken prints a bearer token for the admin-only endpoints.
//
//	JWT_SECRET=... go run ./cmd/admintoken -sub ops
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/adam2504/devevent/internal/auth"
	"github.com/joho/godotenv"
)

func main() {
	sub := flag.String("sub", "admin", "token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_TTL or 60m)")
	flag.Parse()

	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(2)
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = 60 * time.Minute
		if raw := os.Getenv("JWT_TTL"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "JWT_TTL: %v\n", err)
				os.Exit(2)
			}
			lifetime = d
		}
	}

	token, err := auth.NewManager(secret, lifetime).GenerateAccessToken(*sub, auth.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
