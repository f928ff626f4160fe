package crunch

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/dekarrin/cfgcrunch/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Login checks a username and password against the stored crunchd accounts
// and, if they match, records the login time on that account and returns it.
// The returned user is the one any new token should be signed for.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no account has that
// username or the password is wrong, it will match serr.ErrBadCredentials. If
// the error occured due to an unexpected problem with the DB, it will match
// serr.ErrDB.
func (svc Service) Login(ctx context.Context, username string, password string) (dao.User, error) {
	user, err := svc.DB.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.WrapDB("could not look up crunchd account", err)
	}

	if err := checkPassword(user, password); err != nil {
		return dao.User{}, err
	}

	return svc.stamp(ctx, user, func(u *dao.User, now time.Time) { u.LastLoginTime = now })
}

// Logout ends every session of the crunchd account with the given ID. Tokens
// are signed with the account's last logout time, so any token issued before
// this call stops validating. Returns the account as it is after logout.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the account doesn't exist,
// it will match serr.ErrNotFound. If the error occured due to an unexpected
// problem with the DB, it will match serr.ErrDB.
func (svc Service) Logout(ctx context.Context, who uuid.UUID) (dao.User, error) {
	user, err := svc.DB.Users().GetByID(ctx, who)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrNotFound
		}
		return dao.User{}, serr.WrapDB("could not look up crunchd account", err)
	}

	return svc.stamp(ctx, user, func(u *dao.User, now time.Time) { u.LastLogoutTime = now })
}

// stamp sets one of the session timestamps of user to the current time and
// saves the account.
func (svc Service) stamp(ctx context.Context, user dao.User, set func(u *dao.User, now time.Time)) (dao.User, error) {
	set(&user, time.Now())

	updated, err := svc.DB.Users().Update(ctx, user.ID, user)
	if err != nil {
		return dao.User{}, serr.WrapDB("could not save session time of crunchd account", err)
	}
	return updated, nil
}

// encodePassword hashes a new account password with bcrypt at the service's
// cost and returns it in the base64 form it is stored in.
func (svc Service) encodePassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), svc.hashCost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return "", serr.New("password could not be encrypted", err)
	}
	return base64.StdEncoding.EncodeToString(hash), nil
}

// checkPassword returns serr.ErrBadCredentials if password is not the one
// stored for user.
func checkPassword(user dao.User, password string) error {
	hash, err := base64.StdEncoding.DecodeString(user.Password)
	if err != nil {
		return serr.New("stored password hash of '"+user.Username+"' is corrupt", err)
	}

	err = bcrypt.CompareHashAndPassword(hash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return serr.ErrBadCredentials
	} else if err != nil {
		return serr.New("could not check password", err)
	}
	return nil
}
