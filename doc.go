// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Elect server.

Quickly Elect runs small multi-position elections. Each position has a
capacity: a single-seat position behaves like a radio group, a
multi-seat position lets a voter pick up to capacity candidates and
disables the rest once full. The ballot is server-rendered HTML and
every click is applied on the server.

# Starting the Server

	DATABASE_URL=quickly-elect.db ADMIN_KEY_SALT=... SLUG_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -e elections.yaml

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - SLUG_SALT (-slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ELECTIONS_FILE (-e): YAML file of elections created at startup
  - BASE_URL (-base-url): Public URL used in share links
  - SESSION_TTL (-session-ttl): Voter session idle timeout (default: 30m)

Values are also read from a .env file when present (-env-file).
CLI flags take precedence over environment variables.

# Seeding

With -e, every election in the file whose title is not already in the
database is created. The admin key and share URL of each new election
are logged once at startup.

# Graceful Shutdown

The server handles SIGINT and SIGTERM, stops the session sweeper and
lets in-flight requests finish.
*/
package main
