// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite file/DSN or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminKeySalt: Secret for admin key HMAC (required)
  - SlugSalt: Secret for share slug generation (required)
  - ElectionsFile: YAML file seeded on startup (optional)
  - BaseURL: Prefix for share links (default: http://localhost:<port>)
  - SessionTTL: Idle lifetime of a ballot session (default: 30m)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ELECTIONS_FILE → -e
	BASE_URL       → --base-url
	SESSION_TTL    → --session-ttl
	ADMIN_KEY_SALT → --admin-salt
	SLUG_SALT      → --slug-salt

Before the fallback, the file named by --env-file (default ".env") is loaded
with godotenv if it exists. Variables already set in the environment are not
overwritten, so the precedence is: CLI flag, environment, dotenv file.
*/
package cliparse
