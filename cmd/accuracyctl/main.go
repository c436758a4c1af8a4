package main

import "github.com/commodityai/accuracy-backend/cmd/accuracyctl/cmd"

func main() {
	cmd.Execute()
}
