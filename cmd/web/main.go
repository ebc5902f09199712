package main

import (
	"savage_backend/internal/app"
)

func main() {
	app.Run()
}
