package main

import (
	"btc-price-history/internal/cli"
)

func main() {
	cli.Execute()
}
