package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

var ErrInvalidCursor = errors.New("invalid cursor")

type CursorData struct {
	ID string `json:"id"`
}

func hmacSignature(encoded string) string {
	mac := hmac.New(sha256.New, []byte(os.Getenv("CURSOR_SECRET_KEY")))
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verifySignature(encoded string, signature string) bool {
	expectedSignature := hmacSignature(encoded)
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

// EncodeCursor signs the id of the last row of a page so the next page can
// resume after it.
func EncodeCursor(id string) string {
	jsonData, _ := json.Marshal(CursorData{ID: id})
	encoded := base64.RawURLEncoding.EncodeToString(jsonData)
	signature := hmacSignature(encoded)

	return encoded + "." + signature
}

func DecodeCursor(token string) (string, error) {
	parts := strings.Split(token, ".")

	if len(parts) != 2 {
		return "", errors.Join(ErrInvalidCursor, errors.New("bad format"))
	}

	if !verifySignature(parts[0], parts[1]) {
		return "", errors.Join(ErrInvalidCursor, errors.New("bad signature"))
	}

	decoded, err := base64.RawURLEncoding.DecodeString(parts[0])

	if err != nil {
		return "", errors.Join(ErrInvalidCursor, err)
	}

	var cursor CursorData

	if err := json.Unmarshal(decoded, &cursor); err != nil {
		return "", errors.Join(ErrInvalidCursor, err)
	}

	return cursor.ID, nil
}
