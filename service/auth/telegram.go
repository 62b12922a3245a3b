// Package auth 校验Telegram Mini-App的initData签名。
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingHash   = errors.New("init data has no hash")
	ErrBadSignature  = errors.New("init data signature mismatch")
	ErrExpiredAuth   = errors.New("init data auth_date is too old")
	ErrMissingUser   = errors.New("init data has no user")
	ErrMalformedData = errors.New("malformed init data")
)

// TelegramUser initData中携带的用户资料
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ValidateInitData 按Telegram文档校验initData：
// secret = HMAC_SHA256(key="WebAppData", data=botToken)，
// 对按键名排序的 key=value 行做HMAC并与hash比对。
// maxAge > 0 时同时检查 auth_date 的新鲜度。
func ValidateInitData(initData, botToken string, maxAge time.Duration) (*TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, ErrMissingHash
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+values.Get(key))
	}
	dataCheckString := strings.Join(lines, "\n")

	secret := hmacSHA256([]byte("WebAppData"), botToken)
	expected := hex.EncodeToString(hmacSHA256(secret, dataCheckString))
	if !hmac.Equal([]byte(expected), []byte(gotHash)) {
		return nil, ErrBadSignature
	}

	if maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad auth_date", ErrMalformedData)
		}
		if time.Since(time.Unix(authDate, 0)) > maxAge {
			return nil, ErrExpiredAuth
		}
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, ErrMissingUser
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("%w: bad user payload: %v", ErrMalformedData, err)
	}
	if user.ID == 0 {
		return nil, ErrMissingUser
	}

	return &user, nil
}

func hmacSHA256(key []byte, data string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}
