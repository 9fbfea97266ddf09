package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// consentTimeout bounds how long the loopback listener waits for the browser.
const consentTimeout = 5 * time.Minute

// LoopbackConsent returns a ConsentFunc that runs the installed-app flow on
// 127.0.0.1 with a random port. prompt receives the consent URL to show the
// user. The flow uses PKCE and a random state value.
func LoopbackConsent(prompt func(authURL string)) ConsentFunc {
	return func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return nil, fmt.Errorf("failed to start loopback listener: %w", err)
		}

		local := *conf
		local.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

		state, err := randomState()
		if err != nil {
			return nil, err
		}
		verifier := oauth2.GenerateVerifier()

		type result struct {
			code string
			err  error
		}
		done := make(chan result, 1)

		srv := &http.Server{
			ReadHeaderTimeout: 10 * time.Second,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				var res result
				switch {
				case q.Get("error") != "":
					res.err = fmt.Errorf("consent denied: %s", q.Get("error"))
				case q.Get("state") != state:
					res.err = errors.New("state mismatch in OAuth callback")
				case q.Get("code") == "":
					res.err = errors.New("missing authorization code")
				default:
					res.code = q.Get("code")
				}

				if res.err != nil {
					http.Error(w, res.err.Error(), http.StatusBadRequest)
				} else {
					_, _ = w.Write([]byte("Authentication complete. You may close this window."))
				}
				select {
				case done <- res:
				default:
				}
			}),
		}
		go func() { _ = srv.Serve(ln) }()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		prompt(local.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))

		waitCtx, cancel := context.WithTimeout(ctx, consentTimeout)
		defer cancel()

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("waiting for OAuth callback: %w", waitCtx.Err())
		case res := <-done:
			if res.err != nil {
				return nil, res.err
			}
			tok, err := local.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
			if err != nil {
				return nil, fmt.Errorf("failed to exchange auth code: %w", err)
			}
			return tok, nil
		}
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
