package api

import (
	"time"

	"github.com/dekarrin/cfgcrunch/server/dao"
)

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Expires string `json:"expires"`
}

// InfoModel describes the running server and the limits it places on
// submitted grammars.
type InfoModel struct {
	Version struct {
		Server    string `json:"server"`
		CFGCrunch string `json:"cfgcrunch"`
	} `json:"version"`
	Limits struct {
		MaxExpansion int    `json:"max_expansion"`
		MaxBodyBytes int    `json:"max_body_bytes"`
		TokenLife    string `json:"token_lifetime"`
	} `json:"limits"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

// SimplificationRequest is the body of a request to simplify a grammar. The
// grammar may be given either as a single string with one rule per line or as
// a list of rule lines, but not both.
type SimplificationRequest struct {
	Name    string   `json:"name"`
	Grammar string   `json:"grammar,omitempty"`
	Lines   []string `json:"lines,omitempty"`
}

type SimplificationModel struct {
	URI     string   `json:"uri"`
	ID      string   `json:"id"`
	Owner   string   `json:"owner"`
	Name    string   `json:"name"`
	Input   []string `json:"input"`
	Result  []string `json:"result"`
	Start   string   `json:"start"`
	Empty   bool     `json:"empty"`
	Created string   `json:"created"`
}

func userModel(u dao.User) UserModel {
	m := UserModel{
		URI:            PathPrefix + "/users/" + u.ID.String(),
		ID:             u.ID.String(),
		Username:       u.Username,
		Role:           u.Role.String(),
		Created:        u.Created.Format(time.RFC3339),
		Modified:       u.Modified.Format(time.RFC3339),
		LastLogoutTime: u.LastLogoutTime.Format(time.RFC3339),
	}
	if !u.LastLoginTime.IsZero() {
		m.LastLoginTime = u.LastLoginTime.Format(time.RFC3339)
	}
	if u.Email != nil {
		m.Email = u.Email.Address
	}
	return m
}

func simplificationModel(s dao.Simplification) SimplificationModel {
	return SimplificationModel{
		URI:     PathPrefix + "/simplifications/" + s.ID.String(),
		ID:      s.ID.String(),
		Owner:   s.Owner.String(),
		Name:    s.Name,
		Input:   s.Input,
		Result:  s.Result.Lines(),
		Start:   s.Result.Start,
		Empty:   s.Result.Empty(),
		Created: s.Created.Format(time.RFC3339),
	}
}
