// Command admin-token mints a scoped admin JWT for the console or for
// scripting against the API.
//
//	admin-token -email ops@promptmint.io -perms manage_content,manage_finance
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"promptmint.backend/internal/config"
	"promptmint.backend/pkg/jwt"
)

func main() {
	adminIDFlag := flag.String("admin-id", "", "admin UUID (random if omitted)")
	email := flag.String("email", "", "admin email")
	perms := flag.String("perms", "", "comma-separated permissions")
	expiry := flag.Duration("expiry", 0, "token lifetime (default from config)")
	flag.Parse()

	if *email == "" || *perms == "" {
		log.Fatal("usage: admin-token -email <email> -perms <p1,p2> [-admin-id <uuid>] [-expiry <dur>]")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	adminID := uuid.New()
	if *adminIDFlag != "" {
		parsed, err := uuid.Parse(*adminIDFlag)
		if err != nil {
			log.Fatalf("invalid admin id: %v", err)
		}
		adminID = parsed
	}

	lifetime := cfg.JWT.AccessExpiry
	if *expiry > 0 {
		lifetime = *expiry
	}

	svc := jwt.NewJWTService(cfg.JWT.Secret, lifetime)
	token, err := svc.GenerateToken(adminID, *email, strings.Split(*perms, ","))
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Printf("admin id: %s\n", adminID)
	fmt.Printf("expires:  %s\n", time.Now().Add(lifetime).Format(time.RFC3339))
	fmt.Printf("token:    %s\n", token)
}
