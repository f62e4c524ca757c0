package validators

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/MKhiriev/go-repo-sync/models"
)

const (
	FieldURL      = "url"
	FieldProxy    = "proxy"
	FieldEnabled  = "enabled"
	FieldMirrors  = "mirrors"
	FieldUsername = "username"
)

var allowedProxySchemes = []string{"http", "https", "socks5"}

type RequestValidator struct {
}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.AddRepoRequest:
		return v.validateAddRepoRequest(ctx, value, fields...)
	case *models.AddRepoRequest:
		return v.validateAddRepoRequest(ctx, *value, fields...)

	case models.RepoPatchRequest:
		return v.validateRepoPatchRequest(ctx, value, fields...)
	case *models.RepoPatchRequest:
		return v.validateRepoPatchRequest(ctx, *value, fields...)

	case models.MirrorsRequest:
		return v.validateMirrorsRequest(ctx, value, fields...)
	case *models.MirrorsRequest:
		return v.validateMirrorsRequest(ctx, *value, fields...)

	case models.CredentialsRequest:
		return v.validateCredentialsRequest(ctx, value, fields...)
	case *models.CredentialsRequest:
		return v.validateCredentialsRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateAddRepoRequest(_ context.Context, req models.AddRepoRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldURL, FieldProxy}
	}

	for _, f := range fields {
		switch f {
		case FieldURL:
			if strings.TrimSpace(req.URL) == "" {
				return ErrEmptyURL
			}
		case FieldProxy:
			if req.Proxy == "" {
				continue
			}
			if err := validateProxy(req.Proxy); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}

func validateProxy(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProxy, err)
	}
	if !slices.Contains(allowedProxySchemes, strings.ToLower(u.Scheme)) || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidProxy, raw)
	}
	return nil
}

func (v *RequestValidator) validateRepoPatchRequest(_ context.Context, req models.RepoPatchRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEnabled}
	}

	for _, f := range fields {
		switch f {
		case FieldEnabled:
			if req.Enabled == nil {
				return ErrNoFieldsToUpdate
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}

// validateMirrorsRequest accepts an empty list, which clears the mirrors.
func (v *RequestValidator) validateMirrorsRequest(_ context.Context, req models.MirrorsRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldMirrors}
	}

	for _, f := range fields {
		switch f {
		case FieldMirrors:
			for i, m := range req.Mirrors {
				if strings.TrimSpace(m) == "" {
					return fmt.Errorf("%w: entry %d", ErrEmptyMirror, i)
				}
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}

func (v *RequestValidator) validateCredentialsRequest(_ context.Context, req models.CredentialsRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if req.Username == "" && req.Password != "" {
				return ErrPasswordWithoutUsername
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}
