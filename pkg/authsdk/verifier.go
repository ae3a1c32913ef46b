package authsdk

import (
	"context"

	"github.com/harborcrest/authgate/pkg/jwtx"
)

// RemoteVerifier adapts Client to the jwtx.Verifier interface so the
// gateway's delegate can swap between in-process and remote verification
// per route. Unavailability propagates as ErrUnavailable for the caller to
// map onto 503.
type RemoteVerifier struct {
	Client *Client
	Vocab  jwtx.RoleVocabulary
}

// NewRemoteVerifier wraps a client; a zero vocabulary uses the defaults.
func NewRemoteVerifier(client *Client, vocab jwtx.RoleVocabulary) *RemoteVerifier {
	if vocab == (jwtx.RoleVocabulary{}) {
		vocab = jwtx.DefaultRoles
	}
	return &RemoteVerifier{Client: client, Vocab: vocab}
}

// Verify delegates verification to the identity service.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (jwtx.Principal, error) {
	resp, err := v.Client.Validate(ctx, token)
	if err != nil {
		return jwtx.Principal{}, err
	}

	p := jwtx.Principal{
		Subject: resp.Username,
		Roles:   resp.Roles,
	}
	for _, r := range resp.Roles {
		switch r {
		case v.Vocab.Admin:
			p.IsAdmin = true
		case v.Vocab.User:
			p.IsUser = true
		}
	}
	return p, nil
}
