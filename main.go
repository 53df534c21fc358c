package main

import (
	"os"

	"github.com/Speshl/gorrc_rover/internal/app"
)

func main() {
	os.Exit(app.Execute())
}
