package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

func generateJWTSecret() (string, error) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

func main() {
	password := flag.String("admin-password", "", "generate a bcrypt hash for the admin password")
	flag.Parse()

	secret, err := generateJWTSecret()
	if err != nil {
		slog.Error("Error generating secret", "err", err)
		return
	}

	slog.Info("Generated JWT Secret:", "secret", secret)

	if *password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("Error hashing admin password", "err", err)
			return
		}
		slog.Info("Generated admin password hash:", "hash", string(hash))
	}
}
