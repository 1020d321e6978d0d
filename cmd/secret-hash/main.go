// Command secret-hash prints the bcrypt hash of a shared secret, for the
// PAYOUT_CALLBACK_SECRET_HASH environment variable.
package main

import (
	"flag"
	"fmt"
	"log"

	"promptmint.backend/pkg/crypto"
)

func main() {
	secret := flag.String("secret", "", "secret to hash")
	flag.Parse()

	if *secret == "" {
		log.Fatal("usage: secret-hash -secret <value>")
	}

	hash, err := crypto.HashSecret(*secret)
	if err != nil {
		log.Fatalf("failed to hash secret: %v", err)
	}
	fmt.Println(hash)
}
