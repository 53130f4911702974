package telegram

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:TEST-TOKEN"

func signedInitData(t *testing.T, token string, authDate time.Time, user string) string {
	t.Helper()

	values := url.Values{}
	values.Set("query_id", "AAH-test")
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	if user != "" {
		values.Set("user", user)
	}
	values.Set("hash", Sign(values, token))
	return values.Encode()
}

func TestParseInitDataValid(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	raw := signedInitData(t, testToken, now.Add(-time.Minute),
		`{"id":42,"first_name":"Ivan","last_name":"Petrov","username":"ivan_p"}`)

	data, err := ParseInitData(raw, testToken, time.Hour, now)
	require.NoError(t, err)

	assert.Equal(t, int64(42), data.User.ID)
	assert.Equal(t, "Ivan", data.User.FirstName)
	assert.Equal(t, "ivan_p", data.User.Username)
	assert.Equal(t, "AAH-test", data.QueryID)
	assert.Equal(t, now.Add(-time.Minute).Unix(), data.AuthDate.Unix())
}

func TestParseInitDataWrongToken(t *testing.T) {
	now := time.Now()
	raw := signedInitData(t, "other-token", now, `{"id":42}`)

	_, err := ParseInitData(raw, testToken, 0, now)

	var initErr *InitDataError
	require.ErrorAs(t, err, &initErr)
	assert.ErrorIs(t, err, ErrInitDataSignature)
}

func TestParseInitDataTampered(t *testing.T) {
	now := time.Now()
	raw := signedInitData(t, testToken, now, `{"id":42}`)

	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	values.Set("user", `{"id":43}`)

	_, err = ParseInitData(values.Encode(), testToken, 0, now)
	assert.ErrorIs(t, err, ErrInitDataSignature)
}

func TestParseInitDataExpired(t *testing.T) {
	now := time.Now()
	raw := signedInitData(t, testToken, now.Add(-48*time.Hour), `{"id":42}`)

	_, err := ParseInitData(raw, testToken, 24*time.Hour, now)
	assert.ErrorIs(t, err, ErrInitDataExpired)

	_, err = ParseInitData(raw, testToken, 0, now)
	assert.NoError(t, err, "max age 0 disables the freshness check")
}

func TestParseInitDataMissingParts(t *testing.T) {
	now := time.Now()

	_, err := ParseInitData("", testToken, 0, now)
	assert.ErrorIs(t, err, ErrInitDataMissing)

	_, err = ParseInitData(signedInitData(t, testToken, now, ""), testToken, 0, now)
	assert.ErrorIs(t, err, ErrInitDataNoUser)

	_, err = ParseInitData("auth_date=1&user=%7B%7D", testToken, 0, now)
	assert.ErrorIs(t, err, ErrInitDataSignature)
}
