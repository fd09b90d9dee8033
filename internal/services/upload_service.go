package services

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/evently/internal/config"
	"github.com/joshua-takyi/evently/internal/models"
)

var ErrUploadAuthConfig = errors.New("upload signing is not configured")

// DefaultUploadAuthTTL applies when no TTL is configured.
const DefaultUploadAuthTTL = 30 * time.Minute

type UploadSigner interface {
	SignUpload(params url.Values) (string, error)
	PublicKey() string
	Folder() string
}

type UploadAuthService struct {
	signer UploadSigner
	ttl    time.Duration
	now    func() time.Time
}

// NewUploadAuthService clamps ttl into (0, config.MaxUploadAuthTTL].
func NewUploadAuthService(signer UploadSigner, ttl time.Duration) *UploadAuthService {
	if ttl <= 0 {
		ttl = DefaultUploadAuthTTL
	}
	if ttl > config.MaxUploadAuthTTL {
		ttl = config.MaxUploadAuthTTL
	}
	return &UploadAuthService{signer: signer, ttl: ttl, now: time.Now}
}

// Generate issues fresh direct-upload credentials. The host honours a signed
// timestamp for one hour, so the timestamp is backdated to make the signature
// lapse at Expire. Clients rebuild it as Expire-3600 and upload with
// public_id=Token into the signer's folder.
func (us *UploadAuthService) Generate() (*models.UploadAuth, error) {
	if us.signer == nil || us.signer.PublicKey() == "" {
		return nil, ErrUploadAuthConfig
	}

	token := uuid.NewString()
	expire := us.now().Add(us.ttl).Unix()
	timestamp := expire - int64(config.MaxUploadAuthTTL/time.Second)

	signature, err := us.signer.SignUpload(url.Values{
		"folder":    {us.signer.Folder()},
		"public_id": {token},
		"timestamp": {strconv.FormatInt(timestamp, 10)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadAuthConfig, err)
	}

	return &models.UploadAuth{
		Token:     token,
		Expire:    expire,
		Signature: signature,
		PublicKey: us.signer.PublicKey(),
	}, nil
}
