package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "1234567890:TEST_TOKEN_abcdef"

// 按Telegram文档的步骤给测试用initData签名
func signInitData(t *testing.T, values url.Values) string {
	t.Helper()

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+values.Get(key))
	}

	secretMAC := hmac.New(sha256.New, []byte("WebAppData"))
	secretMAC.Write([]byte(testBotToken))

	sigMAC := hmac.New(sha256.New, secretMAC.Sum(nil))
	sigMAC.Write([]byte(strings.Join(lines, "\n")))

	values.Set("hash", hex.EncodeToString(sigMAC.Sum(nil)))
	return values.Encode()
}

func validInitData(t *testing.T) string {
	values := url.Values{}
	values.Set("user", `{"id":42,"username":"anna","first_name":"Anna","last_name":"K"}`)
	values.Set("auth_date", fmt.Sprintf("%d", time.Now().Unix()))
	values.Set("query_id", "AAE42")
	return signInitData(t, values)
}

func TestValidateInitData(t *testing.T) {
	user, err := ValidateInitData(validInitData(t), testBotToken, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "anna", user.Username)
	assert.Equal(t, "Anna", user.FirstName)
	assert.Equal(t, "K", user.LastName)
}

func TestValidateInitDataWrongToken(t *testing.T) {
	_, err := ValidateInitData(validInitData(t), "other:token", time.Hour)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestValidateInitDataTampered(t *testing.T) {
	data := validInitData(t)
	tampered := strings.Replace(data, "anna", "eve", 1)
	_, err := ValidateInitData(tampered, testBotToken, time.Hour)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestValidateInitDataMissingHash(t *testing.T) {
	_, err := ValidateInitData("user=%7B%22id%22%3A1%7D&auth_date=1", testBotToken, 0)
	assert.ErrorIs(t, err, ErrMissingHash)
}

func TestValidateInitDataExpired(t *testing.T) {
	values := url.Values{}
	values.Set("user", `{"id":42}`)
	values.Set("auth_date", fmt.Sprintf("%d", time.Now().Add(-48*time.Hour).Unix()))
	data := signInitData(t, values)

	_, err := ValidateInitData(data, testBotToken, 24*time.Hour)
	assert.ErrorIs(t, err, ErrExpiredAuth)

	// maxAge为0时不检查新鲜度
	_, err = ValidateInitData(data, testBotToken, 0)
	assert.NoError(t, err)
}

func TestValidateInitDataMissingUser(t *testing.T) {
	values := url.Values{}
	values.Set("auth_date", fmt.Sprintf("%d", time.Now().Unix()))
	data := signInitData(t, values)

	_, err := ValidateInitData(data, testBotToken, 0)
	assert.ErrorIs(t, err, ErrMissingUser)
}
