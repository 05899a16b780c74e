// One-off: go run scripts/genhash.go <email> <password> [owner|editor|member]
// Prints an INSERT for the accounts table. Sign-up only creates members, so
// owners and editors are seeded this way.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: genhash <email> <password> [owner|editor|member]")
		os.Exit(2)
	}
	email, password, role := os.Args[1], os.Args[2], "owner"
	if len(os.Args) > 3 {
		role = strings.ToLower(os.Args[3])
	}
	switch role {
	case "owner", "editor", "member":
	default:
		fmt.Fprintf(os.Stderr, "unknown role %q\n", role)
		os.Exit(2)
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		panic(err)
	}
	meta, err := json.Marshal(map[string]any{"role": role, "is_owner": role == "owner"})
	if err != nil {
		panic(err)
	}
	fmt.Printf("INSERT INTO accounts (id, email, password_hash, metadata) VALUES ('%s', '%s', '%s', '%s'::jsonb);\n",
		uuid.NewString(), strings.ReplaceAll(email, "'", "''"), h, meta)
}
