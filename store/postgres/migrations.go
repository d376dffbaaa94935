package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the room ledger store.
var Migrations = migrate.NewGroup("roomledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_roomledger_rooms",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS roomledger_rooms (
    id                         TEXT PRIMARY KEY,
    name                       TEXT NOT NULL DEFAULT '',
    rent_cents                 BIGINT NOT NULL DEFAULT 0,
    rent_currency              TEXT NOT NULL DEFAULT '',
    water_price_cents          BIGINT NOT NULL DEFAULT 0,
    water_price_currency       TEXT NOT NULL DEFAULT '',
    electricity_price_cents    BIGINT NOT NULL DEFAULT 0,
    electricity_price_currency TEXT NOT NULL DEFAULT '',
    gas_price_cents            BIGINT NOT NULL DEFAULT 0,
    gas_price_currency         TEXT NOT NULL DEFAULT '',
    enable_gas                 BOOLEAN NOT NULL DEFAULT FALSE,
    last_water                 BIGINT NOT NULL DEFAULT 0,
    last_electricity           BIGINT NOT NULL DEFAULT 0,
    last_gas                   BIGINT NOT NULL DEFAULT 0,
    basic_fees                 JSONB NOT NULL DEFAULT '[]',
    records                    JSONB NOT NULL DEFAULT '[]',
    rent_records               JSONB NOT NULL DEFAULT '[]',
    tally_items                JSONB NOT NULL DEFAULT '[]',
    created_at                 TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at                 TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_roomledger_rooms_created ON roomledger_rooms (created_at);
CREATE INDEX IF NOT EXISTS idx_roomledger_rooms_name ON roomledger_rooms (name);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS roomledger_rooms`)
				return err
			},
		},
	)
}
