package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"go-catalog-admin/internal/config"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/pkg/jwt"
)

func main() {
	var (
		userID     = flag.String("user", "admin", "operator id stored in the audit columns")
		name       = flag.String("name", "Catalog Administrator", "operator display name")
		email      = flag.String("email", "admin@example.com", "operator email")
		privileges = flag.String("privileges", strings.Join(model.DefaultPrivileges, ","), "comma separated privilege codes")
		ttl        = flag.Duration("ttl", jwt.DefaultTTL, "token lifetime")
	)
	flag.Parse()

	// 1. Load Env (JWT_SECRET and JWT_ISSUER)
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// 2. Sign
	codes := strings.Split(*privileges, ",")
	for i := range codes {
		codes[i] = strings.TrimSpace(codes[i])
	}
	token, err := jwt.GenerateToken(cfg.JWT.Secret, cfg.JWT.Issuer, *userID, *email, *name, codes, *ttl)
	if err != nil {
		log.Fatalf("❌ Failed to sign token: %v", err)
	}

	log.Printf("✅ Token for %s valid until %s", *email, time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println(token)
}
