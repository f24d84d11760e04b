package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultInitDataTTL задаёт максимальный возраст auth_date, если не задан явно.
// initData генерируется при каждом открытии mini-app.
const DefaultInitDataTTL = 5 * time.Minute

// maxClockSkew задаёт допуск для auth_date из будущего.
const maxClockSkew = time.Minute

// WebAppUser is the "user" field of Telegram initData.
type WebAppUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
}

// ValidateTelegramWebAppData validates initData from Telegram WebApp.
// https://core.telegram.org/bots/webapps#validating-data-received-via-the-mini-app
//
// maxAge <= 0 means DefaultInitDataTTL.
func ValidateTelegramWebAppData(initData string, botToken string, maxAge time.Duration) (url.Values, error) {
	if maxAge <= 0 {
		maxAge = DefaultInitDataTTL
	}

	vals, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("invalid initData format: %w", err)
	}

	receivedHash := vals.Get("hash")
	if receivedHash == "" {
		return nil, fmt.Errorf("hash is missing from initData")
	}

	if err := checkAuthDate(vals.Get("auth_date"), maxAge, time.Now()); err != nil {
		return nil, err
	}

	// secret_key = HMAC-SHA256("WebAppData", bot_token)
	secretKey := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	expected := hmacSHA256(secretKey, []byte(dataCheckString(vals)))

	received, err := hex.DecodeString(receivedHash)
	if err != nil || !hmac.Equal(expected, received) {
		return nil, fmt.Errorf("invalid hash: data integrity check failed")
	}

	return vals, nil
}

// ParseWebAppUser extracts the Telegram account from validated initData.
func ParseWebAppUser(vals url.Values) (*WebAppUser, error) {
	raw := vals.Get("user")
	if raw == "" {
		return nil, fmt.Errorf("user data missing from init_data")
	}
	var u WebAppUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("invalid user data: %w", err)
	}
	if u.ID == 0 {
		return nil, fmt.Errorf("user id missing from init_data")
	}
	return &u, nil
}

func checkAuthDate(raw string, maxAge time.Duration, now time.Time) error {
	if raw == "" {
		return fmt.Errorf("auth_date is missing from initData")
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("auth_date is not a valid unix timestamp")
	}
	authDate := time.Unix(unix, 0)
	if age := now.Sub(authDate); age > maxAge {
		return fmt.Errorf("initData expired: auth_date is %s old (max %s)", age.Round(time.Second), maxAge)
	}
	if authDate.After(now.Add(maxClockSkew)) {
		return fmt.Errorf("auth_date is in the future")
	}
	return nil
}

// dataCheckString joins every field except hash as sorted key=value lines.
func dataCheckString(vals url.Values) string {
	var pairs []string
	for key, values := range vals {
		if key == "hash" {
			continue
		}
		for _, v := range values {
			pairs = append(pairs, key+"="+v)
		}
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\n")
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
