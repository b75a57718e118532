package main

import "github.com/hdfops/field-console/cmd"

// @title        HDF Field Console Session API
// @version      1.0
// @description  Authentication, session and permission service for the HDF field operations console.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cmd.Execute()
}
