// Command hashpw reads a password from the terminal and prints its bcrypt
// hash, for seeding a users file by hand.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/avolkov/authgate/internal/server/hashing"
)

func main() {
	cost := flag.Int("c", 10, "bcrypt cost")
	flag.Parse()

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	hasher := hashing.NewBcryptHasher(*cost)
	hash, err := hasher.Hash(string(password))
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	fmt.Println(hash)
}
