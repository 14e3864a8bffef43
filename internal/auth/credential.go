// Package auth holds the session credential passed explicitly into
// every stage invocation. There is deliberately no package-level token
// state: a turn can only use the credential it was handed.
package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Credential authenticates stage calls within one session.
type Credential struct {
	Token     string
	SessionID string
}

// New builds a credential with a fresh session id.
func New(token string) Credential {
	return Credential{Token: token, SessionID: uuid.NewString()}
}

// FromEnv resolves the API token from the named environment variable.
// Callers load .env files before this runs.
func FromEnv(keyEnvironmentVariable string) (Credential, error) {
	token := strings.TrimSpace(os.Getenv(keyEnvironmentVariable))
	if token == "" {
		return Credential{}, fmt.Errorf("missing API key: set %s", keyEnvironmentVariable)
	}
	return New(token), nil
}
