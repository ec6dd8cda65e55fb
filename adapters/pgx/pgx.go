// Package pgx implements the account directory over PostgreSQL.
//
// Expected schema (public.users):
//
//	id                      uuid PRIMARY KEY DEFAULT gen_random_uuid()
//	username                text NOT NULL UNIQUE
//	email                   text NOT NULL UNIQUE
//	hashed_password         text NOT NULL
//	role                    text NOT NULL
//	is_active               boolean NOT NULL DEFAULT true
//	cabinet_access_enabled  boolean NOT NULL DEFAULT false
//	auth_method             text NOT NULL
//	github_id               bigint
//	yandex_access_token     text
//	yandex_refresh_token    text
//	yandex_token_expires_at timestamptz
//	last_login              timestamptz
//	created_at              timestamptz NOT NULL DEFAULT now()
//	updated_at              timestamptz NOT NULL DEFAULT now()
package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ddanshin/storozh/core"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ core.Directory = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}
