package commands

import (
	"fmt"
	"io"

	authService "github.com/allisson/dataproof/internal/auth/service"
)

// RunHashAdminKey produces the Argon2id hash that gates the admin endpoints.
//
// With a key supplied only its hash is printed. With an empty key a fresh
// random key is generated and printed alongside the hash; the plaintext is
// shown exactly once.
func RunHashAdminKey(service authService.AdminKeyService, out io.Writer, key string) error {
	if key == "" {
		plainKey, hashedKey, err := service.GenerateKey()
		if err != nil {
			return fmt.Errorf("failed to generate admin key: %w", err)
		}

		fmt.Fprintln(out, "# Admin Key Configuration")
		fmt.Fprintln(out, "# The plaintext key is shown once; give it to the operator and keep only the hash")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "# Admin key (plaintext): %s\n", plainKey)
		fmt.Fprintf(out, "ADMIN_API_KEY_HASH=\"%s\"\n", hashedKey)
		return nil
	}

	hashedKey, err := service.HashKey(key)
	if err != nil {
		return fmt.Errorf("failed to hash admin key: %w", err)
	}

	fmt.Fprintf(out, "ADMIN_API_KEY_HASH=\"%s\"\n", hashedKey)
	return nil
}
