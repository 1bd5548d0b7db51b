// Command tokengen mints short-lived validation tokens with the development
// signing key, for poking the API locally. Tokens minted here will NOT verify
// against a production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"sentra/internal/token"
	id "sentra/pkg/domain"
)

const devSigningKey = "dev-secret-key-change-in-production"

func main() {
	userID := flag.String("user-id", "", "User ID (UUID). Generated if empty.")
	key := flag.String("key", devSigningKey, "HMAC signing key")
	ttl := flag.Duration("ttl", 5*time.Minute, "Token lifetime")
	flag.Parse()

	uid := id.UserID(uuid.New())
	if *userID != "" {
		parsed, err := id.ParseUserID(*userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid user id: %v\n", err)
			os.Exit(1)
		}
		uid = parsed
	}

	svc := token.NewService(*key, "sentra", *ttl)
	tok, err := svc.Mint(uid, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "minting token: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(map[string]string{
		"token":      tok,
		"user_id":    uid.String(),
		"expires_in": ttl.String(),
	}, "", "  ")
	fmt.Println(string(out))
}
