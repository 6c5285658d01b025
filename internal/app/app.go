/*
Package app wires the EventBook data-synchronization stack together.

Construction order matters: the gateway needs the session as its token source,
the user store needs the gateway, and the session needs the user store. The
cycle is broken with a small deferred token source that starts empty and is
bound to the session once it exists.
*/
package app

import (
	"eventbook/internal/app/client"
	"eventbook/internal/app/gateway"
	"eventbook/internal/app/session"
	"eventbook/internal/app/userstore"
	"eventbook/internal/configs"
	"eventbook/internal/pkg/keystore"
)

// App bundles the fully wired client stack.
type App struct {
	Config  *configs.AppConfig
	Gateway *gateway.Client
	Users   *userstore.Store
	Session *session.Context
	Client  *client.Client
}

// deferredTokens is a gateway.TokenSource bound to the session after both
// sides of the construction cycle exist. Until then it reports no token.
type deferredTokens struct {
	sess *session.Context
}

func (d *deferredTokens) Token() string {
	if d.sess == nil {
		return ""
	}
	return d.sess.Token()
}

// Bootstrap constructs the client stack from configuration. The returned
// session still needs Initialize called before use.
func Bootstrap(cfg *configs.AppConfig) (*App, error) {
	ks, err := keystore.Open(cfg.KeystorePath, cfg.KeystorePassphrase)
	if err != nil {
		return nil, err
	}

	tokens := &deferredTokens{}

	gw := gateway.New(gateway.Config{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.RequestTimeout,
		MaxRetries: cfg.MaxRetries,
		Backoff:    cfg.RetryBackoff,
		Tokens:     tokens,
	})

	users := userstore.New(gw, cfg.TokenSecret)
	sess := session.New(ks, users, cfg.TokenSecret)
	tokens.sess = sess

	return &App{
		Config:  cfg,
		Gateway: gw,
		Users:   users,
		Session: sess,
		Client:  client.New(gw, users, sess),
	}, nil
}
