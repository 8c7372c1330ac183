package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/thereayou/chirp/internal/database"
	"github.com/thereayou/chirp/internal/migrations"
)

// chirp-migrate без аргументов применяет все ожидающие миграции; с
// единственным аргументом "revert" откатывает их до нулевой версии.
// Соединение закрывается всегда, независимо от исхода.
func main() {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	db := &database.Database{}
	if err := db.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}
	defer func() {
		log.Println("Done! Closing connection to Postgres...")
		if err := db.Close(); err != nil {
			log.Printf("close failed: %v", err)
		}
	}()

	log.Println("Connected to Postgres! Checking for database schema...")

	runner := migrations.NewRunner(db.DB(), db, migrations.All)

	// Два одновременных прогона против одной базы — неопределённость,
	// поэтому advisory lock, а не надежда на дисциплину деплоя.
	if err := runner.Lock(); err != nil {
		log.Printf("%v", err)
		return
	}
	defer runner.Unlock()

	if err := runner.Bootstrap(); err != nil {
		log.Printf("bootstrap failed: %v", err)
		return
	}

	var err error
	if len(os.Args) > 1 && os.Args[1] == "revert" {
		err = runner.Revert()
	} else {
		err = runner.Apply()
	}
	if err != nil {
		log.Printf("%v", err)
	}
}
