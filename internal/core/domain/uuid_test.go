package domain

import (
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
)

func TestNormalizeUUID(t *testing.T) {
	canonical := "6f1c4b8e-3a2d-4c5f-9e7b-1d0a2b3c4d5e"
	want := uuid.MustParse(canonical)
	raw := want[:]

	t.Run("should accept every supported representation", func(t *testing.T) {
		g := NewWithT(t)

		inputs := []any{
			canonical,
			raw,
			string(raw),
			want,
			&want,
			[]byte(canonical),
		}

		for _, in := range inputs {
			got, err := NormalizeUUID(in)

			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(got).To(Equal(want))
		}
	})

	t.Run("should round trip canonical text", func(t *testing.T) {
		g := NewWithT(t)

		got, err := NormalizeUUID(canonical)
		g.Expect(err).NotTo(HaveOccurred())

		again, err := NormalizeUUID(got.String())
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(again.String()).To(Equal(canonical))
	})

	t.Run("should reject other shapes", func(t *testing.T) {
		g := NewWithT(t)

		var nilUUID *uuid.UUID

		inputs := []any{
			"",
			"0123456789",
			"6f1c4b8e3a2d4c5f9e7b1d0a2b3c4d5e",
			"urn:uuid:6f1c4b8e-3a2d-4c5f-9e7b-1d0a2b3c4d5e",
			"6f1c4b8e-3a2d-4c5f-9e7b-1d0a2b3c4d5z",
			[]byte{1, 2, 3},
			42,
			nil,
			nilUUID,
		}

		for _, in := range inputs {
			_, err := NormalizeUUID(in)

			g.Expect(err).To(MatchError(ErrInvalidInput))
		}
	})
}
