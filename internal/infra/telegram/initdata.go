package telegram

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/xavierca1/partners-miniapp/internal/entity"
)

var (
	ErrInitDataMissing   = errors.New("init data is empty")
	ErrInitDataSignature = errors.New("init data signature mismatch")
	ErrInitDataExpired   = errors.New("init data expired")
	ErrInitDataNoUser    = errors.New("init data has no user")
)

// InitDataError wraps every initData rejection.
type InitDataError struct {
	Err error
}

func (e *InitDataError) Error() string {
	return "telegram init data: " + e.Err.Error()
}

func (e *InitDataError) Unwrap() error {
	return e.Err
}

type InitData struct {
	User       entity.HostUser
	AuthDate   time.Time
	QueryID    string
	StartParam string
	ChatType   string
}

// ParseInitData verifies the Mini App initData string against botToken and
// decodes it. maxAge <= 0 disables the auth_date freshness check, which is
// measured against now.
func ParseInitData(raw, botToken string, maxAge time.Duration, now time.Time) (*InitData, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &InitDataError{Err: ErrInitDataMissing}
	}

	if err := initdata.Validate(raw, botToken, 0); err != nil {
		return nil, &InitDataError{Err: fmt.Errorf("%w: %w", ErrInitDataSignature, err)}
	}

	parsed, err := initdata.Parse(raw)
	if err != nil {
		return nil, &InitDataError{Err: fmt.Errorf("parse: %w", err)}
	}

	data := &InitData{
		User: entity.HostUser{
			ID:        parsed.User.ID,
			FirstName: parsed.User.FirstName,
			LastName:  parsed.User.LastName,
			Username:  parsed.User.Username,
		},
		AuthDate:   parsed.AuthDate(),
		QueryID:    parsed.QueryID,
		StartParam: parsed.StartParam,
		ChatType:   string(parsed.ChatType),
	}

	if maxAge > 0 && now.Sub(data.AuthDate) > maxAge {
		return nil, &InitDataError{Err: ErrInitDataExpired}
	}
	if data.User.ID == 0 {
		return nil, &InitDataError{Err: ErrInitDataNoUser}
	}

	return data, nil
}

// Sign returns the hash Telegram would attach to values for botToken.
func Sign(values url.Values, botToken string) string {
	payload := make(map[string]string, len(values))
	for k := range values {
		if k != "hash" && k != "auth_date" {
			payload[k] = values.Get(k)
		}
	}

	var authDate time.Time
	if sec, err := strconv.ParseInt(values.Get("auth_date"), 10, 64); err == nil {
		authDate = time.Unix(sec, 0)
	}
	return initdata.Sign(payload, botToken, authDate)
}
