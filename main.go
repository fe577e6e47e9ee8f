// main.go

package main

import (
	"github.com/keelworks/keel/cmd"
	"github.com/keelworks/keel/pkg/logger"
)

func main() {
	logger.InitializeWithFallback()
	cmd.Execute()
}
