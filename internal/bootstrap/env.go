package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
)

// Loadenv pulls a .env file into the environment when one exists. It
// runs before the logger is constructed, hence stdlib log.
func Loadenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}
}
