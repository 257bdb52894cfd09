package domain

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

const (
	uuidTextLen   = 36
	uuidBinaryLen = 16
)

// NormalizeUUID turns any accepted identifier representation into a uuid.UUID:
//
//  1. canonical hyphenated text (36 bytes)
//  2. raw binary as stored by the database (16 bytes, string or []byte)
//  3. a uuid.UUID or *uuid.UUID value
func NormalizeUUID(v any) (uuid.UUID, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, nil
	case *uuid.UUID:
		if id == nil {
			return uuid.Nil, invalidInput("uuid", "uuid is nil")
		}
		return *id, nil
	case []byte:
		return parseUUIDString(string(id))
	case string:
		return parseUUIDString(id)
	default:
		return uuid.Nil, invalidInput("uuid", fmt.Sprintf("unsupported uuid type %T", v))
	}
}

func parseUUIDString(s string) (uuid.UUID, error) {
	if len(s) == uuidBinaryLen {
		s = punctuate(hex.EncodeToString([]byte(s)))
	}

	if len(s) != uuidTextLen {
		return uuid.Nil, invalidInput("uuid", fmt.Sprintf("uuid must be %d or %d bytes, got %d", uuidTextLen, uuidBinaryLen, len(s)))
	}

	id, err := uuid.Parse(s)

	if err != nil {
		return uuid.Nil, invalidInput("uuid", err.Error())
	}

	return id, nil
}

// punctuate lays 32 hex digits out in the 8-4-4-4-12 pattern.
func punctuate(h string) string {
	return h[0:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32]
}
