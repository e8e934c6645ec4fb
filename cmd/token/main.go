// Command token mints a bearer token for the API when AUTH_ENABLED is set.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sangkips/evdekor-api/internal/config"
	"github.com/sangkips/evdekor-api/pkg/token"
)

func main() {
	operator := flag.String("operator", "admin", "name recorded in the token")
	expiry := flag.Duration("expiry", 0, "token lifetime, defaults to AUTH_EXPIRY_HOURS")
	flag.Parse()

	cfg := config.Load()

	lifetime := cfg.Auth.ExpiryHours
	if *expiry > 0 {
		lifetime = *expiry
	}
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	signed, err := token.NewManager(cfg.Auth.Secret, lifetime).Generate(*operator)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(signed)
}
