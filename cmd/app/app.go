package main

import "github.com/DRSN-tech/eshop-etl/internal/app"

func main() {
	app.Run()
}
