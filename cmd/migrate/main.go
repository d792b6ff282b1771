package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"taxextract/internal/config"
)

const usage = "Usage: migrate [-path dir] [up|down|steps N|force V|version]"

func main() {
	dir := flag.String("path", "db/migrations", "directory holding the migration files")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	m, err := migrate.New("file://"+*dir, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer m.Close()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migration up failed: %v", err)
		}
		log.Println("migrations applied successfully")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migration down failed: %v", err)
		}
		log.Println("migrations reverted successfully")

	case "steps":
		n := intArg("steps")
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migration steps failed: %v", err)
		}
		log.Printf("applied %d migration steps", n)

	case "force":
		v := intArg("force")
		if err := m.Force(v); err != nil {
			log.Fatalf("migration force failed: %v", err)
		}
		log.Printf("forced version %d", v)

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatalf("failed to get version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func intArg(cmd string) int {
	if flag.NArg() < 2 {
		log.Fatalf("%s requires a number argument", cmd)
	}
	n, err := strconv.Atoi(flag.Arg(1))
	if err != nil {
		log.Fatalf("invalid %s argument: %v", cmd, err)
	}
	return n
}
