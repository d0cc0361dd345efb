// cmd/main.go
package main

import (
	"stellarone-api/app"
)

// @title           StellarOne Banking API
// @version         1.0
// @description     Retail banking API: two-factor authentication, accounts, transactions, loans, and statements.

// @contact.name   API Support
// @contact.email  support@stellarone.example

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
