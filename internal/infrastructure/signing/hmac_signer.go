package signing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"searchreview/internal/errs"
	"searchreview/internal/ports"
)

// HMACSigner issues query-signed GET URLs for objects in a single bucket,
// in the style of S3 query-string authentication. The string to sign is
// "GET\n/<bucket>/<key>\n<expires-unix>"; the signature is hex HMAC-SHA256.
type HMACSigner struct {
	endpoint  string
	bucket    string
	accessKey string
	secret    []byte
	expiry    time.Duration
	now       func() time.Time
}

var _ ports.ObjectSigner = (*HMACSigner)(nil)

func NewHMACSigner(endpoint, bucket, accessKey, secret string, expiry time.Duration) (*HMACSigner, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("storage endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, errs.Wrap(err, "parse storage endpoint")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("storage bucket is required")
	}
	if strings.TrimSpace(accessKey) == "" {
		return nil, errors.New("storage access key is required")
	}
	if secret == "" {
		return nil, errors.New("storage secret is required")
	}
	if expiry <= 0 {
		return nil, errors.New("url expiry must be positive")
	}

	return &HMACSigner{
		endpoint:  endpoint,
		bucket:    strings.TrimSpace(bucket),
		accessKey: strings.TrimSpace(accessKey),
		secret:    []byte(secret),
		expiry:    expiry,
		now:       time.Now,
	}, nil
}

func (s *HMACSigner) Sign(ctx context.Context, objectKey string) (ports.SignedURL, error) {
	if ctx == nil {
		return ports.SignedURL{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.SignedURL{}, errs.Wrap(err, "check context")
	}

	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" || strings.HasPrefix(objectKey, "/") {
		return ports.SignedURL{}, errors.New("object key is required")
	}

	expires := s.now().UTC().Add(s.expiry).Unix()
	path := "/" + s.bucket + "/" + objectKey

	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "GET\n%s\n%d", path, expires)
	signature := hex.EncodeToString(mac.Sum(nil))

	query := url.Values{}
	query.Set("AccessKeyId", s.accessKey)
	query.Set("Expires", strconv.FormatInt(expires, 10))
	query.Set("Signature", signature)

	signed := url.URL{Path: path, RawQuery: query.Encode()}

	return ports.SignedURL{
		URL:       s.endpoint + signed.EscapedPath() + "?" + signed.RawQuery,
		ExpiresIn: int64(s.expiry / time.Second),
	}, nil
}
