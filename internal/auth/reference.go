package auth

import (
	"context"
	"fmt"

	"github.com/spec-kit/credential-service/internal/config"
	"github.com/spec-kit/credential-service/internal/domain"
	"github.com/spec-kit/credential-service/internal/repository"
)

// LoadReferenceCredential resolves the reference credential once at startup.
// repo is only consulted for the postgres and redis sources.
func LoadReferenceCredential(ctx context.Context, cfg config.ReferenceConfig, repo repository.ReferenceCredentialRepository) (domain.ReferenceCredential, error) {
	switch cfg.Source {
	case config.ReferenceSourceEnv, "":
		return domain.ReferenceCredential{Username: cfg.Username, Password: cfg.Password}, nil
	case config.ReferenceSourcePostgres, config.ReferenceSourceRedis:
		if repo == nil {
			return domain.ReferenceCredential{}, fmt.Errorf("reference source %s: repository not configured", cfg.Source)
		}
		ref, err := repo.GetByName(ctx, cfg.Key)
		if err != nil {
			return domain.ReferenceCredential{}, fmt.Errorf("load reference credential from %s: %w", cfg.Source, err)
		}
		return *ref, nil
	default:
		return domain.ReferenceCredential{}, fmt.Errorf("unknown reference source %q", cfg.Source)
	}
}
