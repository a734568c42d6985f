// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// The refiner handles raw exports that are full of personal data. Every log
// record goes through SecureHandler, which masks:
//   - clear-text export fields (username, full_name, bio, caption, text,
//     message_text, sender/recipient/author usernames, hashtags)
//   - the encryption key and other secrets, by key name
//   - values that look like tokens, private keys or email addresses
//
// Digests and content identifiers (cid, *_hash, run_id) are left readable.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("document refined", "user_id", id, "username", name) // username is masked
//	slog.SetDefault(logger)
package log
