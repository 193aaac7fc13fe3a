package main

import (
	"flag"
	"fmt"

	"airpark/config"
	"airpark/infras/jwt"
	"airpark/shared/clock"
	"airpark/shared/constant"
	"airpark/shared/logger"

	"github.com/rs/zerolog/log"
)

// Mints an access token for a service principal or an operator, signed with
// JWT_ACCESS_SECRET. The token is written to stdout.
func main() {
	subject := flag.String("subject", constant.ContextSystem, "token subject")
	email := flag.String("email", "", "operator email")
	role := flag.String("role", constant.RoleAdmin, "admin or superadmin")
	ttl := flag.Duration("ttl", 0, "lifetime, defaults to JWT_ACCESS_EXPIRE_MIN")
	flag.Parse()

	cfg := config.Get()

	logger.InitLogger(cfg)

	if *role != constant.RoleAdmin && *role != constant.RoleSuperAdmin {
		log.Fatal().Str("role", *role).Msg("Role must be admin or superadmin")
	}

	token, err := jwt.New(cfg, clock.New()).Issue(*subject, *email, *role, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue token")
	}

	fmt.Println(token)
}
