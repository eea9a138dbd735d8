// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Drivers

Open accepts "sqlite" (modernc.org/sqlite, pure Go) or "postgres"
(github.com/lib/pq):

	conn, err := db.Open(db.TypeSQLite, "quickly-elect.db")

SQLite connections are limited to one open connection with foreign keys
enabled. Queries use $N placeholders, which both drivers accept.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: title, status (draft/open/closed), require_confirm, share_slug
  - position: election_id, title, capacity (>= 1), sort_order
  - candidate: position_id, name, sort_order
  - voter: username claims, unique per election
  - ballot: one per voter token per election, replaced on resubmission
  - ballot_selection: candidates chosen on a ballot
*/
package db
