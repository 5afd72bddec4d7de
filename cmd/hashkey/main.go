// Command hashkey prints the bcrypt hash to put in AUTH_API_KEY_HASH.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/helpdesk-labs/support-insights/internal/auth"
	"github.com/helpdesk-labs/support-insights/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	key := strings.Join(os.Args[1:], " ")
	if key == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatal("usage: hashkey <api-key> (or pipe the key on stdin)")
		}
		key = strings.TrimSpace(line)
	}

	hash, err := auth.HashAPIKey(key, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("hash api key: %v", err)
	}
	fmt.Println(hash)
}
