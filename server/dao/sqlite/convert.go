package sqlite

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dekarrin/cfgcrunch/internal/grammar"
	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/google/uuid"
)

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}
	*target = u
	return nil
}

func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}
	email, err := mail.ParseAddress(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}
	*target = email
	return nil
}

// times are stored as unix nanoseconds, with 0 meaning the zero time. Token
// signing keys use the nanoseconds of the last logout, so they must survive
// the round trip.
func convertToDB_Time(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func convertFromDB_Time(i int64, target *time.Time) error {
	if i == 0 {
		*target = time.Time{}
		return nil
	}
	*target = time.Unix(0, i)
	return nil
}

func convertToDB_Role(r dao.Role) int64 {
	return int64(r)
}

func convertFromDB_Role(i int64, target *dao.Role) error {
	r := dao.Role(i)
	if r != dao.Normal && r != dao.Admin {
		return fmt.Errorf("%w: unknown role %d", dao.ErrDecodingFailure, i)
	}
	*target = r
	return nil
}

func convertToDB_ByteSlice(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func convertFromDB_ByteSlice(s string, target *[]byte) error {
	dec, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}
	*target = dec
	return nil
}

// input lines never contain a newline, so they are stored joined by one.
func convertToDB_Lines(lines []string) string {
	return strings.Join(lines, "\n")
}

func convertFromDB_Lines(s string, target *[]string) error {
	if s == "" {
		*target = []string{}
		return nil
	}
	*target = strings.Split(s, "\n")
	return nil
}

func convertToDB_Grammar(g grammar.Grammar) (string, error) {
	data, err := g.MarshalBinary()
	if err != nil {
		return "", err
	}
	return convertToDB_ByteSlice(data), nil
}

func convertFromDB_Grammar(s string, target *grammar.Grammar) error {
	var data []byte
	if err := convertFromDB_ByteSlice(s, &data); err != nil {
		return err
	}

	var g grammar.Grammar
	if err := g.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}
	*target = g
	return nil
}
