package ports

import "context"

// Authenticator verifies reviewer credentials. Implementations must not
// distinguish "unknown reviewer" from "wrong password" in the ok result.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (bool, error)
}
