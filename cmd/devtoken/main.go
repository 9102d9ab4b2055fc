// devtoken は /views を試すための開発用JWTを発行します。
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	jwtmw "stock_terrain/internal/platform/jwt"
)

func main() {
	sub := flag.String("sub", "dev", "token subject (viewer owner)")
	exp := flag.Duration("exp", time.Hour, "token lifetime")
	flag.Parse()

	secret, err := jwtmw.SecretFromEnv()
	if err != nil {
		slog.Error("cannot sign token", "error", err)
		os.Exit(1)
	}
	token, err := jwtmw.NewGenerator(secret, *exp).GenerateToken(*sub)
	if err != nil {
		slog.Error("cannot sign token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
