// Package google provides OAuth2 authentication and token management for Google APIs.
//
// Credentials come from a desktop-app client file (credentials.json) and the
// resulting token is stored in token.json. Stored tokens are reused and
// refreshed transparently; refreshed tokens are written back. When no usable
// token exists, a loopback consent flow on 127.0.0.1 obtains a new one.
package google
