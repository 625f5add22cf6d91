// Command hashpw prints the bcrypt hash for STAFF_PASSWORD_HASH.
//
//	go run ./cmd/hashpw 'plain password'
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/sakila-rental-service/internal/utils"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}
	hash, err := utils.HashPassword(os.Args[1], bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
