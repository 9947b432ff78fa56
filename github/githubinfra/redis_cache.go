package githubinfra

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abraxas-365/craftable/logx"
	"github.com/ShatadruDhar/tekshila/github"
	"github.com/go-redis/redis/v8"
)

// DefaultCacheTTL vigencia corta: los listados son datos derivados y un
// cache viejo solo retrasa la visibilidad de repos o ramas nuevas
const DefaultCacheTTL = 60 * time.Second

// CachedClient decorador de github.Client que cachea los listados de
// repositorios y ramas en Redis. Solo cachea datos derivados de GitHub,
// nunca tokens ni sesiones; las claves usan una huella del token, no el
// token en sí. Toda falla de Redis degrada a llamar a GitHub directo.
type CachedClient struct {
	inner github.Client
	rdb   *redis.Client
	ttl   time.Duration
}

var _ github.Client = (*CachedClient)(nil)

// NewCachedClient envuelve un cliente con cache de listados en Redis
func NewCachedClient(inner github.Client, rdb *redis.Client, ttl time.Duration) *CachedClient {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedClient{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
}

// GetAuthenticatedUser delega sin cache: es la señal de revocación de tokens
func (cc *CachedClient) GetAuthenticatedUser(ctx context.Context, token string) (*github.User, error) {
	return cc.inner.GetAuthenticatedUser(ctx, token)
}

// ListRepositories lista repositorios con cache de lectura
func (cc *CachedClient) ListRepositories(ctx context.Context, token string, opts github.ListRepositoriesOptions) ([]github.Repository, error) {
	key := fmt.Sprintf("gh:repos:%s:%s:%s:%d", tokenFingerprint(token), opts.Sort, opts.Type, opts.PerPage)

	var cached []github.Repository
	if cc.lookup(ctx, key, &cached) {
		return cached, nil
	}

	repos, err := cc.inner.ListRepositories(ctx, token, opts)
	if err != nil {
		return nil, err
	}

	cc.store(ctx, key, repos)
	return repos, nil
}

// ListBranches lista ramas con cache de lectura
func (cc *CachedClient) ListBranches(ctx context.Context, token, owner, repo string) ([]github.Branch, error) {
	key := fmt.Sprintf("gh:branches:%s:%s/%s", tokenFingerprint(token), owner, repo)

	var cached []github.Branch
	if cc.lookup(ctx, key, &cached) {
		return cached, nil
	}

	branches, err := cc.inner.ListBranches(ctx, token, owner, repo)
	if err != nil {
		return nil, err
	}

	cc.store(ctx, key, branches)
	return branches, nil
}

// GetRef delega sin cache: el pipeline de publicación necesita el SHA fresco
func (cc *CachedClient) GetRef(ctx context.Context, token, owner, repo, branch string) (*github.Ref, error) {
	return cc.inner.GetRef(ctx, token, owner, repo, branch)
}

// CreateRef delega e invalida las ramas cacheadas del repositorio
func (cc *CachedClient) CreateRef(ctx context.Context, token, owner, repo, branch, sha string) (*github.Ref, error) {
	ref, err := cc.inner.CreateRef(ctx, token, owner, repo, branch, sha)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("gh:branches:%s:%s/%s", tokenFingerprint(token), owner, repo)
	if err := cc.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error("Failed to invalidate branch cache: %v", err)
	}

	return ref, nil
}

// GetContents delega sin cache
func (cc *CachedClient) GetContents(ctx context.Context, token, owner, repo, path, ref string) (*github.FileContent, error) {
	return cc.inner.GetContents(ctx, token, owner, repo, path, ref)
}

// PutContents delega sin cache
func (cc *CachedClient) PutContents(ctx context.Context, token, owner, repo, path string, req github.PutContentsRequest) (*github.CommitResult, error) {
	return cc.inner.PutContents(ctx, token, owner, repo, path, req)
}

// CreatePullRequest delega sin cache
func (cc *CachedClient) CreatePullRequest(ctx context.Context, token, owner, repo string, req github.NewPullRequest) (*github.PullRequest, error) {
	return cc.inner.CreatePullRequest(ctx, token, owner, repo, req)
}

func (cc *CachedClient) lookup(ctx context.Context, key string, out any) bool {
	payload, err := cc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logx.Error("Redis cache lookup failed: %v", err)
		}
		return false
	}

	if err := json.Unmarshal(payload, out); err != nil {
		logx.Error("Failed to decode cached payload: %v", err)
		return false
	}

	return true
}

func (cc *CachedClient) store(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := cc.rdb.Set(ctx, key, payload, cc.ttl).Err(); err != nil {
		logx.Error("Redis cache store failed: %v", err)
	}
}

// tokenFingerprint deriva una clave de cache a partir del token sin exponerlo
func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
