// Command villatoken prints a bearer token accepted by the write routes
// when AUTH_ENABLED is set.  It signs with JWT_SECRET from the environment
// or .env.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/magic-villa-api/internal/utils"
)

func main() {
	subject := flag.String("sub", "admin", "token subject")
	role := flag.String("role", "admin", "role claim")
	ttl := flag.Int("ttl", 0, "lifetime in minutes (default ACCESS_TOKEN_TTL_MIN or 60)")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if *ttl <= 0 {
		*ttl = 60
		if _, err := fmt.Sscan(os.Getenv("ACCESS_TOKEN_TTL_MIN"), ttl); err != nil || *ttl <= 0 {
			*ttl = 60
		}
	}

	tok, err := utils.NewAccessToken(secret, *subject, *role, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
