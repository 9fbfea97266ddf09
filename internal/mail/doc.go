// Package mail normalizes raw mail messages into unified content records.
//
// It holds the two pure transforms of the mail path:
//   - ExtractBody selects the plain-text body of a possibly multipart payload.
//   - Normalize maps headers, body and snippet into a content.Item.
//
// Nothing here performs I/O. Provider clients convert their own message types
// into Message first.
package mail
