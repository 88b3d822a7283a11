package ports

import "context"

// SignedURL is a temporary, pre-authorized link to a stored object.
type SignedURL struct {
	URL       string
	ExpiresIn int64 // seconds
}

// ObjectSigner issues temporary URLs for object keys. The store itself is an
// external collaborator; implementations only compose and sign the URL.
type ObjectSigner interface {
	Sign(ctx context.Context, objectKey string) (SignedURL, error)
}
