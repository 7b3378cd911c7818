package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/hkjobs/internal/dbx"
	"golang.org/x/oauth2"
)

// TokenStore persists the credential pair between runs.
// Load returns nil, nil when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, tok *oauth2.Token) error
	Clear(ctx context.Context) error
}

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyTokenType    = "token_type"
	keyTokenExpiry  = "token_expiry"
)

var tokenKeys = []string{keyAccessToken, keyRefreshToken, keyTokenType, keyTokenExpiry}

// MetadataStore keeps the tokens in the local metadata table.
type MetadataStore struct {
	db *sql.DB
}

func NewMetadataStore(db *sql.DB) *MetadataStore {
	return &MetadataStore{db: db}
}

func (s *MetadataStore) Load(ctx context.Context) (*oauth2.Token, error) {
	repo := metadata.NewSQLiteRepository(s.db)
	values, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	access := string(values[keyAccessToken])
	if access == "" {
		return nil, nil
	}

	tok := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: string(values[keyRefreshToken]),
		TokenType:    string(values[keyTokenType]),
	}
	if raw := string(values[keyTokenExpiry]); raw != "" {
		exp, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid stored token expiry %q: %w", raw, err)
		}
		tok.Expiry = exp
	}
	return tok, nil
}

func (s *MetadataStore) Save(ctx context.Context, tok *oauth2.Token) error {
	var expiry string
	if !tok.Expiry.IsZero() {
		expiry = tok.Expiry.UTC().Format(time.RFC3339Nano)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, tokenKeys...); err != nil {
			return err
		}
		for _, kv := range [][2]string{
			{keyAccessToken, tok.AccessToken},
			{keyRefreshToken, tok.RefreshToken},
			{keyTokenType, tok.TokenType},
			{keyTokenExpiry, expiry},
		} {
			if kv[1] == "" {
				continue
			}
			if err := repo.Set(ctx, kv[0], []byte(kv[1])); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *MetadataStore) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, tokenKeys...)
}

// MemoryStore keeps the tokens for the lifetime of the process only.
type MemoryStore struct {
	mu  sync.Mutex
	tok *oauth2.Token
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tok == nil {
		return nil, nil
	}
	cp := *s.tok
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tok
	s.tok = &cp
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = nil
	return nil
}
