// Command admintoken mints an admin access token for the /api/tienda routes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"tienda-backend/internal/domain"
	"tienda-backend/pkg/logger"
	"tienda-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "admin e-mail stored in the token")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("ENV"), "info")
	log := logger.Get()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}
	if *email == "" {
		log.Fatal().Msg("-email is required")
	}
	utils.SetSecret(secret)

	token, err := utils.GenerateJWT(uuid.NewString(), *email, domain.RoleAdmin, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	fmt.Println(token)
}
