package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/credential-service/internal/domain"
)

// ErrReferenceNotFound is returned when no reference credential is stored under a name.
var ErrReferenceNotFound = errors.New("reference credential not found")

// ReferenceCredentialRepository reads the configured reference credential.
type ReferenceCredentialRepository interface {
	GetByName(ctx context.Context, name string) (*domain.ReferenceCredential, error)
}

// RowQuerier is satisfied by *pgxpool.Pool and pgx.Tx.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresReferenceRepository struct {
	db RowQuerier
}

// NewPostgresReferenceRepository returns a Postgres-backed implementation.
func NewPostgresReferenceRepository(db RowQuerier) ReferenceCredentialRepository {
	return &postgresReferenceRepository{db: db}
}

func (r *postgresReferenceRepository) GetByName(ctx context.Context, name string) (*domain.ReferenceCredential, error) {
	const query = `
        SELECT username, password
        FROM reference_credentials WHERE name=$1`

	var ref domain.ReferenceCredential
	if err := r.db.QueryRow(ctx, query, name).Scan(&ref.Username, &ref.Password); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrReferenceNotFound, name)
		}
		return nil, err
	}
	return &ref, nil
}

// HashGetter is the subset of the go-redis client used to read hashes.
type HashGetter interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

type redisReferenceRepository struct {
	client    HashGetter
	keyPrefix string
}

// NewRedisReferenceRepository returns a Redis-backed implementation reading the hash
// at keyPrefix+name with fields "username" and "password".
func NewRedisReferenceRepository(client HashGetter, keyPrefix string) ReferenceCredentialRepository {
	return &redisReferenceRepository{client: client, keyPrefix: keyPrefix}
}

func (r *redisReferenceRepository) GetByName(ctx context.Context, name string) (*domain.ReferenceCredential, error) {
	key := r.keyPrefix + name
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrReferenceNotFound, key)
	}

	username, okUser := fields["username"]
	password, okPass := fields["password"]
	if !okUser || !okPass {
		return nil, fmt.Errorf("reference credential %s: username and password fields required", key)
	}
	return &domain.ReferenceCredential{Username: username, Password: password}, nil
}
