// Package main is the entry point for the account API.
//
// @title                       Account API
// @version                     1.0
// @description                 Account registration and authentication service.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"fmt"
	"os"
)

//go:generate swag init --dir ../../ --generalInfo cmd/account-api/main.go --output ../../docs --outputTypes go

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
