package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hdfops/field-console/internal/core/domain"
	"github.com/hdfops/field-console/internal/core/ports"
)

const (
	keyUsers   = "console:credentials:users"
	keyRoles   = "console:credentials:roles"
	keySession = "console:session:current"

	changeChannel = "console:credentials:changes"
)

// CredentialRepository stores the users, roles and current-session records
// as JSON values in Redis. Every write to a credential record is announced
// on a pub/sub channel so other console instances can refresh their
// in-memory snapshots — the service-side analog of a browser storage event.
type CredentialRepository struct {
	client *redis.Client
	log    zerolog.Logger

	// origin tags published changes so this instance can discard its own
	// writes when consuming the feed.
	origin string
}

func NewCredentialRepository(client *redis.Client, log zerolog.Logger) *CredentialRepository {
	return &CredentialRepository{
		client: client,
		log:    log,
		origin: uuid.NewString(),
	}
}

// changeEnvelope is the wire form of a credential change notification.
type changeEnvelope struct {
	Origin string          `json:"origin"`
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value"`
}

func (r *CredentialRepository) LoadUsers(ctx context.Context) ([]domain.User, error) {
	raw, err := r.client.Get(ctx, keyUsers).Bytes()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *CredentialRepository) SaveUsers(ctx context.Context, users []domain.User) error {
	return r.save(ctx, keyUsers, ports.RecordUsers, users)
}

func (r *CredentialRepository) LoadRoles(ctx context.Context) ([]domain.Role, error) {
	raw, err := r.client.Get(ctx, keyRoles).Bytes()
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	var roles []domain.Role
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	return roles, nil
}

func (r *CredentialRepository) SaveRoles(ctx context.Context, roles []domain.Role) error {
	return r.save(ctx, keyRoles, ports.RecordRoles, roles)
}

func (r *CredentialRepository) SaveSession(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, keySession, raw, 0).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *CredentialRepository) ClearSession(ctx context.Context) error {
	if err := r.client.Del(ctx, keySession).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Changes subscribes to the credential change channel. Notifications
// published by this repository instance are filtered out; the channel closes
// when ctx is cancelled.
func (r *CredentialRepository) Changes(ctx context.Context) (<-chan ports.CredentialChange, error) {
	sub := r.client.Subscribe(ctx, changeChannel)

	// Force the subscription to be established before returning so callers
	// never miss changes published right after Changes returns.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe credential changes: %w", err)
	}

	out := make(chan ports.CredentialChange)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var env changeEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					r.log.Warn().Err(err).Msg("discarding undecodable credential change")
					continue
				}
				if env.Origin == r.origin {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- ports.CredentialChange{Key: env.Key, Value: env.Value}:
				}
			}
		}
	}()
	return out, nil
}

func (r *CredentialRepository) save(ctx context.Context, key, record string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", record, err)
	}
	if err := r.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save %s: %w", record, err)
	}

	env, err := json.Marshal(changeEnvelope{Origin: r.origin, Key: record, Value: raw})
	if err != nil {
		return fmt.Errorf("encode change envelope: %w", err)
	}
	// Announcement failures are non-fatal: the write itself succeeded and
	// other instances will still reseed on their next restart.
	if err := r.client.Publish(ctx, changeChannel, env).Err(); err != nil {
		r.log.Warn().Err(err).Str("record", record).Msg("failed to announce credential change")
	}
	return nil
}
