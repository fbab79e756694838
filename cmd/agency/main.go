// Command agency runs the agency website API and its admin tooling.
//
// @title                       Agency API
// @version                     1.0
// @description                 Back office API for the agency website.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

func main() {
	Execute()
}
