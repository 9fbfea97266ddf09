package google

import (
	gmail "google.golang.org/api/gmail/v1"
)

// Scopes are the Google OAuth scopes requested by inboxcast.
// Only read access to the mailbox is needed to list and normalize messages.
var Scopes = []string{
	gmail.GmailReadonlyScope,
}
