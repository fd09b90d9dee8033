package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// UploadedImage is what the media host reports back for a stored file.
type UploadedImage struct {
	URL      string
	PublicID string
}

// CloudinaryHost stores event images in one Cloudinary folder.
type CloudinaryHost struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryHost(cld *cloudinary.Cloudinary, folder string) *CloudinaryHost {
	return &CloudinaryHost{cld: cld, folder: folder}
}

func (h *CloudinaryHost) Folder() string {
	return h.folder
}

// Upload sends the file bytes under a fresh public id. A response without a
// secure URL counts as a failure.
func (h *CloudinaryHost) Upload(ctx context.Context, file io.Reader, fileName string) (*UploadedImage, error) {
	if h.cld == nil {
		return nil, errors.New("cloudinary client is not initialized")
	}

	res, err := h.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   h.folder,
		PublicID: uuid.NewString(),
		Tags:     []string{"evently"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image %s: %w", fileName, err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("failed to upload image %s: %s", fileName, res.Error.Message)
	}
	if res.SecureURL == "" {
		return nil, fmt.Errorf("image upload failed - no URL returned")
	}

	return &UploadedImage{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (h *CloudinaryHost) Delete(ctx context.Context, publicID string) error {
	if h.cld == nil {
		return errors.New("cloudinary client is not initialized")
	}
	res, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("failed to delete image %s: %s", publicID, res.Error.Message)
	}
	return nil
}

// SignUpload signs direct-upload parameters with the account secret.
func (h *CloudinaryHost) SignUpload(params url.Values) (string, error) {
	if h.cld == nil || h.cld.Config.Cloud.APISecret == "" {
		return "", errors.New("cloudinary api secret is not configured")
	}
	return api.SignParameters(params, h.cld.Config.Cloud.APISecret)
}

func (h *CloudinaryHost) PublicKey() string {
	if h.cld == nil {
		return ""
	}
	return h.cld.Config.Cloud.APIKey
}
