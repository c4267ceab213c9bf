// Package kvstore is the persistent key/value cache that holds the session:
// the access token, the refresh token and the JSON snapshot of the current
// user.
//
// Two implementations satisfy Repository:
//
//   - SQLiteRepository persists to the local database (table kv, created by
//     the embedded goose migrations in internal/client/migrations).
//   - MemoryRepository keeps values in a map; the CLI uses it in -ephemeral
//     mode and tests use it as a fake.
//
// Values are plain strings. There is no encryption and no expiry; callers
// remove keys explicitly.
package kvstore
