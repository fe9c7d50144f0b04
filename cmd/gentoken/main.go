// cmd/gentoken/main.go — Genera un JWT de desarrollo.
// Uso: JWT_SECRET=... go run cmd/gentoken/main.go [rol]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"blendwms/internal/middleware"
)

func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET requerido")
		os.Exit(1)
	}
	rol := "administrador"
	if len(os.Args) > 1 {
		rol = os.Args[1]
	}

	claims := middleware.JWTClaims{
		UserID:   uuid.NewString(),
		Username: "dev@blendwms.local",
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(8 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(signed)
}
