// Command token mints an access token for the extraction API.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"taxextract/internal/config"
	"taxextract/internal/service"
)

func main() {
	accessID := flag.String("access", "", "access id of the caller (required)")
	clients := flag.String("clients", "", "comma-separated client ids the token may use; empty grants all")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to the configured access expiry")
	flag.Parse()

	if *accessID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var clientIDs []string
	for _, id := range strings.Split(*clients, ",") {
		if id = strings.TrimSpace(id); id != "" {
			clientIDs = append(clientIDs, id)
		}
	}

	token, err := service.NewAuthService(&cfg.JWT).IssueToken(*accessID, clientIDs, *ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	out, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode token: %v", err)
	}
	fmt.Println(string(out))
}
