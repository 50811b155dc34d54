package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Quick utility to sign a development ID token with IDP_SIGNING_KEY
// Usage: go run scripts/mint_id_token.go <email> [name]
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/mint_id_token.go <email> [name]")
		fmt.Println("Example: IDP_SIGNING_KEY=dev go run scripts/mint_id_token.go chefe@praia.com \"Chefe de Praia\"")
		os.Exit(1)
	}

	key := os.Getenv("IDP_SIGNING_KEY")
	if key == "" {
		fmt.Println("IDP_SIGNING_KEY is not set")
		os.Exit(1)
	}

	email := os.Args[1]
	name := email
	if len(os.Args) > 2 {
		name = os.Args[2]
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"name":  name,
		"sub":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(12 * time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte(key))
	if err != nil {
		fmt.Printf("Error signing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ID token: %s\n", signed)
	fmt.Printf("\nTo open a session, run:\n")
	fmt.Printf("curl -i -X POST localhost:8080/api/v1/auth/session -d '{\"idToken\": \"%s\"}'\n", signed)
}
