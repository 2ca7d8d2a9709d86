package main

import "github.com/contriboss/torch-extension-go/cmd/torchext/internal"

func main() {
	internal.Execute()
}
