package main

import "github.com/agrofix/agrofix-backend/internal/cli"

func main() {
	cli.Execute()
}
