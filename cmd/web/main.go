package main

import (
	"clubreg_backend/internal/app"
)

func main() {
	app.Run()
}
