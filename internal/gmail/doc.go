// Package gmail provides a read-only client for the Gmail inbox.
//
// The client authenticates through the google package, lists messages carrying
// the INBOX label and converts each Gmail API message into a vendor-neutral
// mail.Message. Normalization into content items happens in the mail package.
//
// Example usage:
//
//	auth := &google.Authorizer{Config: conf, Tokens: google.NewTokenFile("token.json")}
//	client := gmail.NewClient(auth)
//	if err := client.Authenticate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	msgs, err := client.ListInbox(ctx, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	items := mail.NormalizeAll(msgs)
package gmail
