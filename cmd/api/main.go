package main

import "iq-home/estimate/internal/app"

func main() {
	app.Run()
}
