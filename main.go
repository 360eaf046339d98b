package main

import (
	"os"

	"github.com/rbacadmin/rbac-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
